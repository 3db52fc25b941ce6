package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
	"dchanga/internal/qr"
	"dchanga/internal/repository"
)

// confirmationMarker is what a scanned confirmation must contain to settle a
// QR contribution. No signature is checked; this is a demo trust shortcut.
const confirmationMarker = "VERIFIED"

// nativeScale is the number of decimal places the ledger can settle (tinybars).
const nativeScale = 8

// DefaultQRSize is the side length in pixels of rendered QR images.
const DefaultQRSize = 256

// NewTransactionID returns a fresh application transaction ID.
func NewTransactionID() string {
	return "TX-" + strings.ToUpper(uuid.NewString())
}

func newContributionID() string {
	return "CONTRIB-" + uuid.NewString()
}

// ContributionService drives a contribution from amount entry to a terminal state.
type ContributionService struct {
	campaigns        *CampaignService
	contributionRepo repository.ContributionRepository
	transactionRepo  repository.TransactionRepository
	ledger           *LedgerService
	treasury         TreasuryResolver
	notifier         Notifier
	receipts         *ReceiptService
	exchangeRate     decimal.Decimal
	now              func() time.Time

	// Serialises confirmation per contribution.
	confirmMu sync.Mutex
	confirm   map[string]*sync.Mutex
}

// ContributionServiceConfig bundles ContributionService dependencies.
type ContributionServiceConfig struct {
	Campaigns        *CampaignService
	ContributionRepo repository.ContributionRepository
	TransactionRepo  repository.TransactionRepository
	Ledger           *LedgerService
	Treasury         TreasuryResolver
	Notifier         Notifier // optional
	ExchangeRate     decimal.Decimal
}

// NewContributionService creates a new ContributionService.
func NewContributionService(cfg ContributionServiceConfig) *ContributionService {
	rate := cfg.ExchangeRate
	if !rate.IsPositive() {
		rate = decimal.RequireFromString("0.5")
	}
	return &ContributionService{
		campaigns:        cfg.Campaigns,
		contributionRepo: cfg.ContributionRepo,
		transactionRepo:  cfg.TransactionRepo,
		ledger:           cfg.Ledger,
		treasury:         cfg.Treasury,
		notifier:         cfg.Notifier,
		receipts:         NewReceiptService(cfg.Notifier),
		exchangeRate:     rate,
		now:              time.Now,
		confirm:          make(map[string]*sync.Mutex),
	}
}

// ToNative converts a fiat amount into native ledger units.
func (s *ContributionService) ToNative(amount decimal.Decimal) decimal.Decimal {
	return amount.Div(s.exchangeRate).Round(nativeScale)
}

// ContributeRequest contains the parameters for a contribution.
type ContributeRequest struct {
	CampaignID       string
	Amount           decimal.Decimal
	ContributorEmail string
	Method           domain.PaymentMethod
}

// ContributeResult is the outcome of a contribution attempt.
type ContributeResult struct {
	Contribution *domain.Contribution
	// QRPayload is set for methods confirmed by scanning.
	QRPayload string
}

// Contribute validates the request and settles it by the chosen method.
// Ledger payments finish in succeeded or failed. Other methods stop in
// qr-pending until Confirm is called. On a settlement failure the failed
// contribution is returned along with the error.
func (s *ContributionService) Contribute(ctx context.Context, req ContributeRequest) (*ContributeResult, error) {
	if req.CampaignID == "" {
		return nil, ErrInvalidCampaignID
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(req.ContributorEmail) == "" {
		return nil, ErrInvalidContributor
	}
	if !req.Method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	if _, err := s.campaigns.GetCampaign(ctx, req.CampaignID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := &domain.Contribution{
		ID:               newContributionID(),
		CampaignID:       req.CampaignID,
		Amount:           req.Amount,
		ContributorEmail: req.ContributorEmail,
		TransactionID:    NewTransactionID(),
		State:            domain.ContributionStateAmountEntry,
		Status:           domain.ContributionStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	c.Method = req.Method
	if err := s.transition(c, domain.ContributionStateMethodSelected); err != nil {
		return nil, err
	}

	if req.Method.SettlesOnLedger() {
		return s.settleOnLedger(ctx, c)
	}
	return s.awaitScan(ctx, c)
}

func (s *ContributionService) settleOnLedger(ctx context.Context, c *domain.Contribution) (*ContributeResult, error) {
	if err := s.transition(c, domain.ContributionStateProcessing); err != nil {
		return nil, err
	}
	c.NativeAmount = s.ToNative(c.Amount)
	if err := s.contributionRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	treasury, err := s.treasury.ResolveTreasury(ctx, c.CampaignID)
	if err != nil {
		log.Printf("[contribution] %s: %v", c.TransactionID, err)
		return s.fail(ctx, c, err)
	}

	ledgerTxID, err := s.ledger.TransferWithBalanceCheck(ctx, treasury, c.NativeAmount)
	if err != nil {
		return s.fail(ctx, c, err)
	}

	c.LedgerTransactionID = ledgerTxID
	s.recordSettlement(ctx, c)

	if err := s.succeed(ctx, c); err != nil {
		return nil, err
	}
	return &ContributeResult{Contribution: c}, nil
}

// recordSettlement writes the confirmed record of a settled transfer. When
// neither an append nor a status update lands, the contribution stays
// succeeded and is flagged for reconciliation.
func (s *ContributionService) recordSettlement(ctx context.Context, c *domain.Contribution) {
	record := &domain.TransactionRecord{
		TransactionID:       c.TransactionID,
		CampaignID:          c.CampaignID,
		Amount:              c.Amount,
		Contributor:         c.ContributorEmail,
		Timestamp:           s.now().UTC(),
		Status:              domain.TransactionStatusConfirmed,
		LedgerTransactionID: c.LedgerTransactionID,
	}
	appendErr := s.transactionRepo.Append(ctx, record)
	if appendErr == nil {
		return
	}

	updateErr := s.transactionRepo.UpdateStatus(ctx, c.TransactionID, domain.TransactionStatusConfirmed, c.LedgerTransactionID)
	if updateErr == nil {
		log.Printf("[contribution] %s: record append failed (%v), existing record confirmed", c.TransactionID, appendErr)
		return
	}

	c.NeedsReconciliation = true
	log.Printf("[contribution] %s settled as %s with no transaction record, needs reconciliation: append: %v; update: %v",
		c.TransactionID, c.LedgerTransactionID, appendErr, updateErr)
}

func (s *ContributionService) awaitScan(ctx context.Context, c *domain.Contribution) (*ContributeResult, error) {
	if err := s.transition(c, domain.ContributionStateQRPending); err != nil {
		return nil, err
	}

	payload, err := qr.Encode(payloadFor(c))
	if err != nil {
		return nil, err
	}

	if err := s.contributionRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	record := &domain.TransactionRecord{
		TransactionID: c.TransactionID,
		CampaignID:    c.CampaignID,
		Amount:        c.Amount,
		Contributor:   c.ContributorEmail,
		Timestamp:     c.CreatedAt,
		Status:        domain.TransactionStatusPending,
	}
	if err := s.transactionRepo.Append(ctx, record); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyContributionReceived(ctx, c)
	}
	return &ContributeResult{Contribution: c, QRPayload: payload}, nil
}

// Confirm settles a qr-pending contribution from a scanned confirmation.
func (s *ContributionService) Confirm(ctx context.Context, contributionID, scanned string) (*domain.Contribution, error) {
	if contributionID == "" {
		return nil, ErrInvalidContributionID
	}

	mu := s.confirmLock(contributionID)
	mu.Lock()
	defer mu.Unlock()

	c, err := s.contributionRepo.GetByID(ctx, contributionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.releaseConfirmLock(contributionID)
		}
		return nil, err
	}
	if c.State.Terminal() {
		s.releaseConfirmLock(contributionID)
		return nil, ErrContributionFinalized
	}
	if c.State != domain.ContributionStateQRPending {
		return nil, ErrNotAwaitingConfirmation
	}
	if !strings.Contains(scanned, confirmationMarker) {
		return nil, ErrScanNotVerified
	}

	if err := s.transactionRepo.UpdateStatus(ctx, c.TransactionID, domain.TransactionStatusConfirmed, ""); err != nil {
		return nil, err
	}
	if err := s.succeed(ctx, c); err != nil {
		return nil, err
	}
	s.releaseConfirmLock(contributionID)
	return c, nil
}

// ConfirmTransaction confirms the qr-pending contribution carrying the
// application transaction ID read from its QR payload.
func (s *ContributionService) ConfirmTransaction(ctx context.Context, transactionID, scanned string) (*domain.Contribution, error) {
	if transactionID == "" {
		return nil, ErrInvalidTransactionID
	}
	c, err := s.contributionRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return s.Confirm(ctx, c.ID, scanned)
}

// GetContribution retrieves a contribution by ID.
func (s *ContributionService) GetContribution(ctx context.Context, contributionID string) (*domain.Contribution, error) {
	if contributionID == "" {
		return nil, ErrInvalidContributionID
	}
	return s.contributionRepo.GetByID(ctx, contributionID)
}

// ListContributions returns every contribution, or those of one campaign.
func (s *ContributionService) ListContributions(ctx context.Context, campaignID string) ([]*domain.Contribution, error) {
	if campaignID == "" {
		return s.contributionRepo.GetAll(ctx)
	}
	return s.contributionRepo.GetByCampaignID(ctx, campaignID)
}

// CreateContributionRequest contains the parameters for recording a pending pledge.
type CreateContributionRequest struct {
	CampaignID       string
	Amount           decimal.Decimal
	ContributorEmail string
	TransactionID    string // generated when empty
	Method           domain.PaymentMethod
}

// CreateContribution records a pending pledge without settling it.
func (s *ContributionService) CreateContribution(ctx context.Context, req CreateContributionRequest) (*domain.Contribution, error) {
	if req.CampaignID == "" {
		return nil, ErrInvalidCampaignID
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(req.ContributorEmail) == "" {
		return nil, ErrInvalidContributor
	}
	if req.Method != "" && !req.Method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	txID := req.TransactionID
	if txID == "" {
		txID = NewTransactionID()
	}

	now := s.now().UTC()
	c := &domain.Contribution{
		ID:               newContributionID(),
		CampaignID:       req.CampaignID,
		Amount:           req.Amount,
		ContributorEmail: req.ContributorEmail,
		Method:           req.Method,
		TransactionID:    txID,
		State:            domain.ContributionStateAmountEntry,
		Status:           domain.ContributionStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.contributionRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// QRCode renders the confirmation QR image of a qr-pending contribution.
func (s *ContributionService) QRCode(ctx context.Context, contributionID string, size int) ([]byte, error) {
	c, err := s.GetContribution(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	if c.State != domain.ContributionStateQRPending {
		return nil, ErrNotAwaitingConfirmation
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	return qr.RenderPNG(payloadFor(c), size)
}

// Receipt builds the receipt of a succeeded contribution.
func (s *ContributionService) Receipt(ctx context.Context, contributionID string) (*Receipt, error) {
	c, err := s.GetContribution(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	campaign, err := s.campaigns.GetCampaign(ctx, c.CampaignID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.receipts.GenerateReceipt(ctx, c, campaign)
}

// FormatReceipt renders a receipt as plain text.
func (s *ContributionService) FormatReceipt(r *Receipt) string {
	return s.receipts.FormatReceipt(r)
}

func (s *ContributionService) succeed(ctx context.Context, c *domain.Contribution) error {
	if err := s.transition(c, domain.ContributionStateSucceeded); err != nil {
		return err
	}
	c.Status = domain.ContributionStatusConfirmed
	if err := s.contributionRepo.Update(ctx, c); err != nil {
		return err
	}

	if _, err := s.campaigns.RecordContribution(ctx, c.CampaignID, c.Amount); err != nil {
		log.Printf("[contribution] %s: failed to update campaign %s totals: %v", c.TransactionID, c.CampaignID, err)
	}
	if s.notifier != nil {
		_ = s.notifier.NotifyContributionConfirmed(ctx, c)
	}
	return nil
}

// fail moves c to failed and returns it with cause.
func (s *ContributionService) fail(ctx context.Context, c *domain.Contribution, cause error) (*ContributeResult, error) {
	if err := s.transition(c, domain.ContributionStateFailed); err != nil {
		return nil, err
	}
	c.Status = domain.ContributionStatusFailed
	c.FailureReason = FailureMessage(cause)
	if err := s.contributionRepo.Update(ctx, c); err != nil {
		log.Printf("[contribution] %s: failed to persist failure: %v", c.TransactionID, err)
	}
	if s.notifier != nil {
		_ = s.notifier.NotifyContributionFailed(ctx, c)
	}
	return &ContributeResult{Contribution: c}, cause
}

func (s *ContributionService) transition(c *domain.Contribution, next domain.ContributionState) error {
	if c.State.Terminal() {
		return ErrContributionFinalized
	}
	if !c.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot move contribution from %s to %s", ErrValidation, c.State, next)
	}
	c.State = next
	c.UpdatedAt = s.now().UTC()
	return nil
}

func (s *ContributionService) confirmLock(contributionID string) *sync.Mutex {
	s.confirmMu.Lock()
	defer s.confirmMu.Unlock()
	mu, ok := s.confirm[contributionID]
	if !ok {
		mu = &sync.Mutex{}
		s.confirm[contributionID] = mu
	}
	return mu
}

// releaseConfirmLock drops the lock of a contribution that reached a terminal
// state. Late waiters still hold the old mutex and will see the terminal state.
func (s *ContributionService) releaseConfirmLock(contributionID string) {
	s.confirmMu.Lock()
	defer s.confirmMu.Unlock()
	delete(s.confirm, contributionID)
}

func payloadFor(c *domain.Contribution) qr.Payload {
	return qr.Payload{
		TransactionID: c.TransactionID,
		CampaignID:    c.CampaignID,
		Amount:        c.Amount,
		Method:        string(c.Method),
		Timestamp:     c.CreatedAt,
	}
}

// FailureMessage is the caller-facing text for a settlement error.
// Configuration and network details stay in the server log.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return err.Error()
	case errors.Is(err, ErrConfig):
		return "Payment service is not configured"
	case errors.Is(err, ErrNetwork):
		return "Ledger network unavailable, please try again"
	case errors.Is(err, ErrValidation):
		return err.Error()
	default:
		return "Payment failed"
	}
}
