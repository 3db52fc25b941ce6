package redis

import (
	"context"
	"time"
)

// CampaignCacheInterface defines the interface for campaign caching.
type CampaignCacheInterface interface {
	GetCampaign(ctx context.Context, campaignID string) (*CachedCampaign, error)
	SetCampaign(ctx context.Context, campaign *CachedCampaign) error
	InvalidateCampaign(ctx context.Context, campaignID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireAccountLock(ctx context.Context, accountID string, ttl time.Duration) (string, error)
	ReleaseAccountLock(ctx context.Context, accountID, token string) error
	LockAccount(ctx context.Context, accountID string) (func(), error)
}

// Ensure concrete types implement interfaces.
var (
	_ CampaignCacheInterface = (*CacheStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
)
