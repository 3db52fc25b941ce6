package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dchanga/internal/domain"
	"dchanga/internal/repository"
)

// TransactionRepository is a PostgreSQL implementation of repository.TransactionRepository.
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL transaction record repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

const transactionColumns = `transaction_id, campaign_id, amount, contributor, recorded_at, status, ledger_transaction_id`

// Append inserts a new record.
func (r *TransactionRepository) Append(ctx context.Context, record *domain.TransactionRecord) error {
	query := `
		INSERT INTO transaction_records (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		record.TransactionID,
		record.CampaignID,
		record.Amount,
		record.Contributor,
		record.Timestamp,
		record.Status,
		nullString(record.LedgerTransactionID),
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}

	return err
}

// GetByID retrieves a record by application transaction ID.
func (r *TransactionRepository) GetByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	query := `SELECT ` + transactionColumns + ` FROM transaction_records WHERE transaction_id = $1`

	record, err := scanTransaction(r.q.QueryRowContext(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return record, nil
}

// GetByCampaignID retrieves the records of a campaign in insertion order.
func (r *TransactionRepository) GetByCampaignID(ctx context.Context, campaignID string) ([]*domain.TransactionRecord, error) {
	query := `SELECT ` + transactionColumns + ` FROM transaction_records WHERE campaign_id = $1 ORDER BY seq`

	rows, err := r.q.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.TransactionRecord, 0)
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// UpdateStatus changes a record's status, keeping the existing ledger ID when ledgerTxID is empty.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, ledgerTxID string) error {
	query := `
		UPDATE transaction_records
		SET status = $1, ledger_transaction_id = COALESCE($2, ledger_transaction_id)
		WHERE transaction_id = $3
	`

	result, err := r.q.ExecContext(ctx, query, status, nullString(ledgerTxID), transactionID)
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

func scanTransaction(row rowScanner) (*domain.TransactionRecord, error) {
	var record domain.TransactionRecord
	var ledgerTxID sql.NullString

	err := row.Scan(
		&record.TransactionID,
		&record.CampaignID,
		&record.Amount,
		&record.Contributor,
		&record.Timestamp,
		&record.Status,
		&ledgerTxID,
	)
	if err != nil {
		return nil, err
	}

	record.LedgerTransactionID = ledgerTxID.String
	return &record, nil
}
