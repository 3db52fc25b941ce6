package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
	"dchanga/internal/redis"
	"dchanga/internal/repository"
)

// CampaignService handles campaign operations.
type CampaignService struct {
	campaignRepo repository.CampaignRepository
	cache        redis.CampaignCacheInterface
	now          func() time.Time
}

// NewCampaignService creates a new CampaignService. cache may be nil.
func NewCampaignService(campaignRepo repository.CampaignRepository, cache redis.CampaignCacheInterface) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		cache:        cache,
		now:          time.Now,
	}
}

// ListCampaigns returns every campaign.
func (s *CampaignService) ListCampaigns(ctx context.Context) ([]*domain.Campaign, error) {
	return s.campaignRepo.GetAll(ctx)
}

// GetCampaign returns a campaign, reading through the cache when one is configured.
func (s *CampaignService) GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	if campaignID == "" {
		return nil, ErrInvalidCampaignID
	}

	if s.cache != nil {
		cached, err := s.cache.GetCampaign(ctx, campaignID)
		if err != nil {
			log.Printf("[campaign] cache read failed for %s: %v", campaignID, err)
		} else if cached != nil {
			return cached.Campaign(), nil
		}
	}

	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCampaign(ctx, redis.NewCachedCampaign(campaign)); err != nil {
			log.Printf("[campaign] cache write failed for %s: %v", campaignID, err)
		}
	}
	return campaign, nil
}

// CreateCampaignRequest contains the parameters for creating a campaign.
type CreateCampaignRequest struct {
	Title           string
	Description     string
	FullDescription string
	Goal            decimal.Decimal
	Image           string
	Category        string
	Location        string
	CreatedBy       string
	Milestones      []domain.Milestone
}

// CreateCampaign creates a campaign awaiting review. Counters start at zero.
func (s *CampaignService) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*domain.Campaign, error) {
	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.Location) == "" ||
		!req.Goal.IsPositive() {
		return nil, ErrMissingCampaignFields
	}

	milestones := make([]domain.Milestone, 0, len(req.Milestones))
	for _, m := range req.Milestones {
		if m.Status == "" {
			m.Status = domain.MilestoneStatusPending
		}
		milestones = append(milestones, m)
	}

	campaign := &domain.Campaign{
		Title:           req.Title,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Goal:            req.Goal,
		Raised:          decimal.Zero,
		Contributors:    0,
		Image:           req.Image,
		Category:        req.Category,
		Status:          domain.CampaignStatusPending,
		Progress:        0,
		Location:        req.Location,
		CreatedBy:       req.CreatedBy,
		CreatedDate:     s.now().UTC(),
		Milestones:      milestones,
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// RecordContribution adds a settled contribution to the campaign's totals
// and drops the cached copy.
func (s *CampaignService) RecordContribution(ctx context.Context, campaignID string, amount decimal.Decimal) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.RecordContribution(ctx, campaignID, amount)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateCampaign(ctx, campaignID); err != nil {
			log.Printf("[campaign] cache invalidation failed for %s: %v", campaignID, err)
		}
	}
	return campaign, nil
}
