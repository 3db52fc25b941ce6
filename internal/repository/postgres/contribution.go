package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dchanga/internal/domain"
	"dchanga/internal/repository"
)

// ContributionRepository is a PostgreSQL implementation of repository.ContributionRepository.
type ContributionRepository struct {
	q Querier
}

// NewContributionRepository creates a new PostgreSQL contribution repository.
func NewContributionRepository(db *sql.DB) *ContributionRepository {
	return &ContributionRepository{q: db}
}

const contributionColumns = `id, campaign_id, amount, contributor_email, method, transaction_id, state, status,
	native_amount, ledger_transaction_id, failure_reason, needs_reconciliation, created_at, updated_at`

// Create persists a new contribution.
func (r *ContributionRepository) Create(ctx context.Context, c *domain.Contribution) error {
	query := `
		INSERT INTO contributions (` + contributionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.q.ExecContext(ctx, query,
		c.ID,
		c.CampaignID,
		c.Amount,
		c.ContributorEmail,
		c.Method,
		c.TransactionID,
		c.State,
		c.Status,
		c.NativeAmount,
		nullString(c.LedgerTransactionID),
		nullString(c.FailureReason),
		c.NeedsReconciliation,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}

	return err
}

// GetByID retrieves a contribution by ID.
func (r *ContributionRepository) GetByID(ctx context.Context, id string) (*domain.Contribution, error) {
	return r.getOne(ctx, `SELECT `+contributionColumns+` FROM contributions WHERE id = $1`, id)
}

// GetByTransactionID retrieves a contribution by its application transaction ID.
func (r *ContributionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Contribution, error) {
	return r.getOne(ctx, `SELECT `+contributionColumns+` FROM contributions WHERE transaction_id = $1`, transactionID)
}

// GetAll retrieves all contributions in creation order.
func (r *ContributionRepository) GetAll(ctx context.Context) ([]*domain.Contribution, error) {
	return r.getMany(ctx, `SELECT `+contributionColumns+` FROM contributions ORDER BY seq`)
}

// GetByCampaignID retrieves the contributions of a campaign in creation order.
func (r *ContributionRepository) GetByCampaignID(ctx context.Context, campaignID string) ([]*domain.Contribution, error) {
	return r.getMany(ctx, `SELECT `+contributionColumns+` FROM contributions WHERE campaign_id = $1 ORDER BY seq`, campaignID)
}

// Update replaces the mutable fields of an existing contribution.
func (r *ContributionRepository) Update(ctx context.Context, c *domain.Contribution) error {
	query := `
		UPDATE contributions
		SET state = $1, status = $2, native_amount = $3, ledger_transaction_id = $4, failure_reason = $5,
			needs_reconciliation = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.q.ExecContext(ctx, query,
		c.State,
		c.Status,
		c.NativeAmount,
		nullString(c.LedgerTransactionID),
		nullString(c.FailureReason),
		c.NeedsReconciliation,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *ContributionRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Contribution, error) {
	c, err := scanContribution(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *ContributionRepository) getMany(ctx context.Context, query string, args ...any) ([]*domain.Contribution, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contributions := make([]*domain.Contribution, 0)
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, err
		}
		contributions = append(contributions, c)
	}

	return contributions, rows.Err()
}

func scanContribution(row rowScanner) (*domain.Contribution, error) {
	var c domain.Contribution
	var ledgerTxID, failureReason sql.NullString

	err := row.Scan(
		&c.ID,
		&c.CampaignID,
		&c.Amount,
		&c.ContributorEmail,
		&c.Method,
		&c.TransactionID,
		&c.State,
		&c.Status,
		&c.NativeAmount,
		&ledgerTxID,
		&failureReason,
		&c.NeedsReconciliation,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.LedgerTransactionID = ledgerTxID.String
	c.FailureReason = failureReason.String
	return &c, nil
}
