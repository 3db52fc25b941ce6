package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
	"dchanga/internal/repository"
)

// CampaignRepository is an in-process campaign store.
type CampaignRepository struct {
	mu        sync.RWMutex
	campaigns []*domain.Campaign
	byID      map[string]int
}

// NewCampaignRepository creates a campaign store holding the given campaigns.
func NewCampaignRepository(seed ...*domain.Campaign) *CampaignRepository {
	r := &CampaignRepository{byID: make(map[string]int)}
	for _, c := range seed {
		stored := cloneCampaign(c)
		r.byID[stored.ID] = len(r.campaigns)
		r.campaigns = append(r.campaigns, stored)
	}
	return r
}

// Create persists a new campaign, assigning the next sequential ID when empty.
func (r *CampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if campaign.ID == "" {
		campaign.ID = strconv.Itoa(len(r.campaigns) + 1)
	}
	if _, ok := r.byID[campaign.ID]; ok {
		return repository.ErrConflict
	}
	r.byID[campaign.ID] = len(r.campaigns)
	r.campaigns = append(r.campaigns, cloneCampaign(campaign))
	return nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneCampaign(r.campaigns[i]), nil
}

func (r *CampaignRepository) GetAll(ctx context.Context) ([]*domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		result = append(result, cloneCampaign(c))
	}
	return result, nil
}

func (r *CampaignRepository) RecordContribution(ctx context.Context, id string, amount decimal.Decimal) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := r.campaigns[i]
	c.Raised = c.Raised.Add(amount)
	c.Contributors++
	c.Progress = c.ComputeProgress()
	return cloneCampaign(c), nil
}

func cloneCampaign(c *domain.Campaign) *domain.Campaign {
	cp := *c
	cp.Milestones = append([]domain.Milestone(nil), c.Milestones...)
	return &cp
}
