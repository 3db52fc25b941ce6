package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
	"dchanga/internal/repository"
)

// TransactionService records and looks up campaign transaction records.
type TransactionService struct {
	transactionRepo repository.TransactionRepository
	now             func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactionRepo repository.TransactionRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// RecordTransactionRequest contains the parameters for recording a transaction.
type RecordTransactionRequest struct {
	TransactionID       string
	CampaignID          string
	Amount              decimal.Decimal
	Contributor         string
	LedgerTransactionID string
}

// RecordTransaction appends a record. It is confirmed when a ledger
// transaction ID is supplied and pending otherwise.
func (s *TransactionService) RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*domain.TransactionRecord, error) {
	if req.TransactionID == "" {
		return nil, ErrInvalidTransactionID
	}
	if req.CampaignID == "" {
		return nil, ErrInvalidCampaignID
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(req.Contributor) == "" {
		return nil, ErrInvalidContributor
	}

	status := domain.TransactionStatusPending
	if req.LedgerTransactionID != "" {
		status = domain.TransactionStatusConfirmed
	}

	record := &domain.TransactionRecord{
		TransactionID:       req.TransactionID,
		CampaignID:          req.CampaignID,
		Amount:              req.Amount,
		Contributor:         req.Contributor,
		Timestamp:           s.now().UTC(),
		Status:              status,
		LedgerTransactionID: req.LedgerTransactionID,
	}
	if err := s.transactionRepo.Append(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetTransaction retrieves a record by application transaction ID.
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	if transactionID == "" {
		return nil, ErrInvalidTransactionID
	}
	return s.transactionRepo.GetByID(ctx, transactionID)
}

// ListByCampaign returns a campaign's records in insertion order.
func (s *TransactionService) ListByCampaign(ctx context.Context, campaignID string) ([]*domain.TransactionRecord, error) {
	if campaignID == "" {
		return nil, ErrInvalidCampaignID
	}
	return s.transactionRepo.GetByCampaignID(ctx, campaignID)
}
