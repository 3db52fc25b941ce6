package repository

import (
	"context"

	"dchanga/internal/domain"
)

// ContributionRepository defines the persistence operations for contributions.
type ContributionRepository interface {
	// Create persists a new contribution.
	Create(ctx context.Context, contribution *domain.Contribution) error

	// GetByID retrieves a contribution by ID.
	GetByID(ctx context.Context, id string) (*domain.Contribution, error)

	// GetByTransactionID retrieves a contribution by its application transaction ID.
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Contribution, error)

	// GetAll retrieves all contributions in creation order.
	GetAll(ctx context.Context) ([]*domain.Contribution, error)

	// GetByCampaignID retrieves the contributions of a campaign in creation order.
	GetByCampaignID(ctx context.Context, campaignID string) ([]*domain.Contribution, error)

	// Update replaces an existing contribution.
	Update(ctx context.Context, contribution *domain.Contribution) error
}
