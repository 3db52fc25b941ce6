package tests

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
	"dchanga/internal/ledger"
	"dchanga/internal/redis"
	"dchanga/internal/repository"
	"dchanga/internal/repository/memory"
	"dchanga/internal/service"
)

// ──────────────────────────────────────────────
// MOCK CAMPAIGN CACHE
// ──────────────────────────────────────────────

// MockCampaignCache is an in-memory implementation of CampaignCacheInterface.
type MockCampaignCache struct {
	mu        sync.Mutex
	campaigns map[string]*redis.CachedCampaign

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	// Error injection
	GetError error
}

// NewMockCampaignCache creates a new mock campaign cache.
func NewMockCampaignCache() *MockCampaignCache {
	return &MockCampaignCache{
		campaigns: make(map[string]*redis.CachedCampaign),
	}
}

func (m *MockCampaignCache) GetCampaign(ctx context.Context, campaignID string) (*redis.CachedCampaign, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.campaigns[campaignID], nil
}

func (m *MockCampaignCache) SetCampaign(ctx context.Context, campaign *redis.CachedCampaign) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.campaigns[campaign.ID] = campaign
	return nil
}

func (m *MockCampaignCache) InvalidateCampaign(ctx context.Context, campaignID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.campaigns, campaignID)
	return nil
}

// Cached reports whether a campaign is currently cached.
func (m *MockCampaignCache) Cached(campaignID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.campaigns[campaignID]
	return ok
}

// ──────────────────────────────────────────────
// RECORDING NOTIFIER
// ──────────────────────────────────────────────

// FailingAppendRepository wraps a transaction store and fails Append with
// AppendError. With StoreBeforeError the record is written first, like a
// commit whose acknowledgement was lost.
type FailingAppendRepository struct {
	repository.TransactionRepository

	AppendError      error
	StoreBeforeError bool
	AppendCalls      int32
}

func (r *FailingAppendRepository) Append(ctx context.Context, record *domain.TransactionRecord) error {
	atomic.AddInt32(&r.AppendCalls, 1)
	if r.AppendError == nil {
		return r.TransactionRepository.Append(ctx, record)
	}
	if r.StoreBeforeError {
		if err := r.TransactionRepository.Append(ctx, record); err != nil {
			return err
		}
	}
	return r.AppendError
}

// RecordingNotifier records the notification types it is asked to send.
type RecordingNotifier struct {
	mu    sync.Mutex
	types []service.NotificationType
}

func (n *RecordingNotifier) record(t service.NotificationType) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.types = append(n.types, t)
	return nil
}

func (n *RecordingNotifier) NotifyContributionReceived(ctx context.Context, c *domain.Contribution) error {
	return n.record(service.NotificationContributionReceived)
}

func (n *RecordingNotifier) NotifyContributionConfirmed(ctx context.Context, c *domain.Contribution) error {
	return n.record(service.NotificationContributionConfirmed)
}

func (n *RecordingNotifier) NotifyContributionFailed(ctx context.Context, c *domain.Contribution) error {
	return n.record(service.NotificationContributionFailed)
}

func (n *RecordingNotifier) NotifyReceiptReady(ctx context.Context, r *service.Receipt) error {
	return n.record(service.NotificationReceiptReady)
}

// Types returns the recorded notification types in order.
func (n *RecordingNotifier) Types() []service.NotificationType {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]service.NotificationType(nil), n.types...)
}

// ──────────────────────────────────────────────
// TEST HARNESS
// ──────────────────────────────────────────────

const (
	operatorAccount = "0.0.1001"
	treasuryAccount = "0.0.5005"
)

// Harness wires the services over memory repositories and a simulated ledger.
type Harness struct {
	Campaigns     *memory.CampaignRepository
	Contributions *memory.ContributionRepository
	Transactions  *memory.TransactionRepository
	Network       *ledger.SimulatedConnector
	Cache         *MockCampaignCache
	Notifier      *RecordingNotifier

	CampaignService     *service.CampaignService
	LedgerService       *service.LedgerService
	ContributionService *service.ContributionService
	TransactionService  *service.TransactionService
}

// NewHarness creates a harness where the operator holds operatorBalance native units.
func NewHarness(operatorBalance string) *Harness {
	return NewHarnessWithRecords(operatorBalance, nil)
}

// NewHarnessWithRecords is NewHarness with the contribution flow writing
// records through records, which should wrap h.Transactions. A nil records
// uses h.Transactions directly.
func NewHarnessWithRecords(operatorBalance string, records func(*memory.TransactionRepository) repository.TransactionRepository) *Harness {
	h := &Harness{
		Campaigns:     memory.NewCampaignRepository(memory.SeedCampaigns()...),
		Contributions: memory.NewContributionRepository(),
		Transactions:  memory.NewTransactionRepository(),
		Network:       ledger.NewSimulatedConnector(operatorAccount, decimal.RequireFromString(operatorBalance)),
		Cache:         NewMockCampaignCache(),
		Notifier:      &RecordingNotifier{},
	}

	h.CampaignService = service.NewCampaignService(h.Campaigns, h.Cache)
	h.LedgerService = service.NewLedgerService(h.Network, nil)
	h.TransactionService = service.NewTransactionService(h.Transactions)
	var transactionRepo repository.TransactionRepository = h.Transactions
	if records != nil {
		transactionRepo = records(h.Transactions)
	}
	h.ContributionService = service.NewContributionService(service.ContributionServiceConfig{
		Campaigns:        h.CampaignService,
		ContributionRepo: h.Contributions,
		TransactionRepo:  transactionRepo,
		Ledger:           h.LedgerService,
		Treasury:         service.NewStaticTreasuryResolver(nil, treasuryAccount),
		Notifier:         h.Notifier,
		ExchangeRate:     decimal.RequireFromString("0.5"),
	})
	return h
}
