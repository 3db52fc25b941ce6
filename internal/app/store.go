package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/newrelic/go-agent/v3/newrelic"

	"dchanga/internal/config"
	"dchanga/internal/repository"
	"dchanga/internal/repository/memory"
	"dchanga/internal/repository/postgres"
)

// Store bundles the repositories of one backend.
type Store struct {
	Campaigns     repository.CampaignRepository
	Contributions repository.ContributionRepository
	Transactions  repository.TransactionRepository

	db *sql.DB
}

// Close releases the backend's resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewStore opens the configured backend. Both backends start with the demo
// campaigns; PostgreSQL only seeds an empty campaigns table.
func NewStore(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application) (*Store, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		return &Store{
			Campaigns:     memory.NewCampaignRepository(memory.SeedCampaigns()...),
			Contributions: memory.NewContributionRepository(),
			Transactions:  memory.NewTransactionRepository(),
		}, nil

	case config.StorePostgres:
		db, err := NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return nil, err
		}
		store := &Store{
			Campaigns:     postgres.NewCampaignRepository(db),
			Contributions: postgres.NewContributionRepository(db),
			Transactions:  postgres.NewTransactionRepository(db),
			db:            db,
		}
		if err := seedCampaigns(ctx, store.Campaigns); err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func seedCampaigns(ctx context.Context, repo repository.CampaignRepository) error {
	existing, err := repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list campaigns: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, c := range memory.SeedCampaigns() {
		if err := repo.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to seed campaign %s: %w", c.ID, err)
		}
	}
	log.Println("Seeded demo campaigns")
	return nil
}
