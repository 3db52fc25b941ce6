package memory

import (
	"context"
	"sync"

	"dchanga/internal/domain"
	"dchanga/internal/repository"
)

// ContributionRepository is an in-process contribution store.
type ContributionRepository struct {
	mu            sync.RWMutex
	contributions []*domain.Contribution
	byID          map[string]int
	byTxID        map[string]int
}

// NewContributionRepository creates an empty contribution store.
func NewContributionRepository() *ContributionRepository {
	return &ContributionRepository{
		byID:   make(map[string]int),
		byTxID: make(map[string]int),
	}
}

func (r *ContributionRepository) Create(ctx context.Context, contribution *domain.Contribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[contribution.ID]; ok {
		return repository.ErrConflict
	}
	if _, ok := r.byTxID[contribution.TransactionID]; ok {
		return repository.ErrConflict
	}
	stored := *contribution
	r.byID[stored.ID] = len(r.contributions)
	r.byTxID[stored.TransactionID] = len(r.contributions)
	r.contributions = append(r.contributions, &stored)
	return nil
}

func (r *ContributionRepository) GetByID(ctx context.Context, id string) (*domain.Contribution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byID, id)
}

func (r *ContributionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Contribution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byTxID, transactionID)
}

func (r *ContributionRepository) GetAll(ctx context.Context) ([]*domain.Contribution, error) {
	return r.filter(func(*domain.Contribution) bool { return true }), nil
}

func (r *ContributionRepository) GetByCampaignID(ctx context.Context, campaignID string) ([]*domain.Contribution, error) {
	return r.filter(func(c *domain.Contribution) bool { return c.CampaignID == campaignID }), nil
}

func (r *ContributionRepository) Update(ctx context.Context, contribution *domain.Contribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byID[contribution.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored := *contribution
	r.contributions[i] = &stored
	return nil
}

// lookup must be called with r.mu held.
func (r *ContributionRepository) lookup(index map[string]int, key string) (*domain.Contribution, error) {
	i, ok := index[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r.contributions[i]
	return &cp, nil
}

func (r *ContributionRepository) filter(keep func(*domain.Contribution) bool) []*domain.Contribution {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Contribution, 0)
	for _, c := range r.contributions {
		if keep(c) {
			cp := *c
			result = append(result, &cp)
		}
	}
	return result
}
