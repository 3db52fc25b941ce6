package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
)

// CampaignRepository defines the persistence operations for campaigns.
type CampaignRepository interface {
	// Create persists a new campaign. The ID is assigned by the store when empty.
	Create(ctx context.Context, campaign *domain.Campaign) error

	// GetByID retrieves a campaign by ID.
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)

	// GetAll retrieves all campaigns in creation order.
	GetAll(ctx context.Context) ([]*domain.Campaign, error)

	// RecordContribution adds amount to the raised total, increments the
	// contributor count and refreshes progress.
	RecordContribution(ctx context.Context, id string, amount decimal.Decimal) (*domain.Campaign, error)
}
