package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
)

// DefaultCampaignCacheTTL bounds how stale a campaign's raised total may be.
const DefaultCampaignCacheTTL = 30 * time.Second

const campaignCachePrefix = "cache:campaign:"

// CachedMilestone represents a cached campaign milestone.
type CachedMilestone struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
}

// CachedCampaign represents a cached campaign entity.
type CachedCampaign struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	FullDescription string            `json:"full_description"`
	Goal            decimal.Decimal   `json:"goal"`
	Raised          decimal.Decimal   `json:"raised"`
	Contributors    int               `json:"contributors"`
	Image           string            `json:"image"`
	Category        string            `json:"category"`
	Status          string            `json:"status"`
	Progress        int               `json:"progress"`
	Location        string            `json:"location"`
	CreatedBy       string            `json:"created_by"`
	CreatedDate     time.Time         `json:"created_date"`
	Milestones      []CachedMilestone `json:"milestones"`
}

// NewCachedCampaign converts a campaign into its cached form.
func NewCachedCampaign(c *domain.Campaign) *CachedCampaign {
	cached := &CachedCampaign{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		FullDescription: c.FullDescription,
		Goal:            c.Goal,
		Raised:          c.Raised,
		Contributors:    c.Contributors,
		Image:           c.Image,
		Category:        c.Category,
		Status:          string(c.Status),
		Progress:        c.Progress,
		Location:        c.Location,
		CreatedBy:       c.CreatedBy,
		CreatedDate:     c.CreatedDate,
		Milestones:      make([]CachedMilestone, 0, len(c.Milestones)),
	}
	for _, m := range c.Milestones {
		cached.Milestones = append(cached.Milestones, CachedMilestone{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Amount:      m.Amount,
			Status:      string(m.Status),
		})
	}
	return cached
}

// Campaign converts the cached form back into a campaign.
func (c *CachedCampaign) Campaign() *domain.Campaign {
	campaign := &domain.Campaign{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		FullDescription: c.FullDescription,
		Goal:            c.Goal,
		Raised:          c.Raised,
		Contributors:    c.Contributors,
		Image:           c.Image,
		Category:        c.Category,
		Status:          domain.CampaignStatus(c.Status),
		Progress:        c.Progress,
		Location:        c.Location,
		CreatedBy:       c.CreatedBy,
		CreatedDate:     c.CreatedDate,
	}
	for _, m := range c.Milestones {
		campaign.Milestones = append(campaign.Milestones, domain.Milestone{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Amount:      m.Amount,
			Status:      domain.MilestoneStatus(m.Status),
		})
	}
	return campaign
}

// CacheStore handles campaign caching in Redis.
type CacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheStore creates a new CacheStore. A non-positive ttl uses DefaultCampaignCacheTTL.
func NewCacheStore(client *redis.Client, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = DefaultCampaignCacheTTL
	}
	return &CacheStore{client: client, ttl: ttl}
}

// GetCampaign retrieves a campaign from cache. Returns nil on a cache miss.
func (s *CacheStore) GetCampaign(ctx context.Context, campaignID string) (*CachedCampaign, error) {
	data, err := s.client.Get(ctx, campaignCachePrefix+campaignID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var campaign CachedCampaign
	if err := json.Unmarshal(data, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

// SetCampaign stores a campaign in cache.
func (s *CacheStore) SetCampaign(ctx context.Context, campaign *CachedCampaign) error {
	data, err := json.Marshal(campaign)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, campaignCachePrefix+campaign.ID, data, s.ttl).Err()
}

// InvalidateCampaign removes a campaign from cache.
func (s *CacheStore) InvalidateCampaign(ctx context.Context, campaignID string) error {
	return s.client.Del(ctx, campaignCachePrefix+campaignID).Err()
}
