package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
	"dchanga/internal/repository"
)

// CampaignRepository is a PostgreSQL implementation of repository.CampaignRepository.
type CampaignRepository struct {
	q Querier
}

// NewCampaignRepository creates a new PostgreSQL campaign repository.
func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{q: db}
}

const campaignColumns = `id, title, description, full_description, goal, raised, contributors, image, category,
	status, progress, location, created_by, created_date, milestones`

// Create persists a new campaign. Milestones are stored as a JSONB document.
func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (` + campaignColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	milestones, err := json.Marshal(c.Milestones)
	if err != nil {
		return fmt.Errorf("failed to encode milestones: %w", err)
	}

	_, err = r.q.ExecContext(ctx, query,
		c.ID,
		c.Title,
		c.Description,
		c.FullDescription,
		c.Goal,
		c.Raised,
		c.Contributors,
		c.Image,
		c.Category,
		c.Status,
		c.Progress,
		c.Location,
		c.CreatedBy,
		c.CreatedDate,
		milestones,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}

	return err
}

// GetByID retrieves a campaign by ID.
func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

	c, err := scanCampaign(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return c, nil
}

// GetAll retrieves all campaigns in creation order.
func (r *CampaignRepository) GetAll(ctx context.Context) ([]*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY seq`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}

	return campaigns, rows.Err()
}

// RecordContribution updates the counters in a single statement so concurrent
// contributions do not lose increments.
func (r *CampaignRepository) RecordContribution(ctx context.Context, id string, amount decimal.Decimal) (*domain.Campaign, error) {
	query := `
		UPDATE campaigns
		SET raised = raised + $2,
			contributors = contributors + 1,
			progress = CASE WHEN goal > 0 THEN LEAST(100, FLOOR((raised + $2) * 100 / goal))::INTEGER ELSE 0 END
		WHERE id = $1
		RETURNING ` + campaignColumns

	c, err := scanCampaign(r.q.QueryRowContext(ctx, query, id, amount))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return c, nil
}

func scanCampaign(row rowScanner) (*domain.Campaign, error) {
	var c domain.Campaign
	var milestones []byte

	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.FullDescription,
		&c.Goal,
		&c.Raised,
		&c.Contributors,
		&c.Image,
		&c.Category,
		&c.Status,
		&c.Progress,
		&c.Location,
		&c.CreatedBy,
		&c.CreatedDate,
		&milestones,
	)
	if err != nil {
		return nil, err
	}

	if len(milestones) > 0 {
		if err := json.Unmarshal(milestones, &c.Milestones); err != nil {
			return nil, fmt.Errorf("failed to decode milestones: %w", err)
		}
	}

	return &c, nil
}
