package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
)

// Receipt summarises a settled contribution.
type Receipt struct {
	ID                  string
	TransactionID       string
	LedgerTransactionID string
	CampaignID          string
	CampaignTitle       string
	ContributorEmail    string
	Amount              decimal.Decimal
	NativeAmount        decimal.Decimal
	Method              domain.PaymentMethod
	Status              domain.ContributionStatus
	SettledAt           time.Time
	CreatedAt           time.Time
}

// ReceiptService handles receipt generation.
type ReceiptService struct {
	notifier Notifier
}

// NewReceiptService creates a new ReceiptService. notifier may be nil.
func NewReceiptService(notifier Notifier) *ReceiptService {
	return &ReceiptService{
		notifier: notifier,
	}
}

// GenerateReceipt builds the receipt of a succeeded contribution.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, c *domain.Contribution, campaign *domain.Campaign) (*Receipt, error) {
	if c == nil {
		return nil, ErrInvalidContributionID
	}
	if c.State != domain.ContributionStateSucceeded {
		return nil, fmt.Errorf("%w: receipts are issued for succeeded contributions only", ErrValidation)
	}

	receipt := &Receipt{
		ID:                  uuid.New().String(),
		TransactionID:       c.TransactionID,
		LedgerTransactionID: c.LedgerTransactionID,
		CampaignID:          c.CampaignID,
		ContributorEmail:    c.ContributorEmail,
		Amount:              c.Amount,
		NativeAmount:        c.NativeAmount,
		Method:              c.Method,
		Status:              c.Status,
		SettledAt:           c.UpdatedAt,
		CreatedAt:           time.Now().UTC(),
	}
	if campaign != nil {
		receipt.CampaignTitle = campaign.Title
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyReceiptReady(ctx, receipt)
	}

	return receipt, nil
}

// FormatReceipt formats the receipt as plain text.
func (s *ReceiptService) FormatReceipt(receipt *Receipt) string {
	ledgerLine := ""
	if receipt.LedgerTransactionID != "" {
		ledgerLine = "Ledger Tx:   " + receipt.LedgerTransactionID + "\n"
	}
	nativeLine := ""
	if receipt.NativeAmount.IsPositive() {
		nativeLine = "Native:      " + receipt.NativeAmount.String() + "\n"
	}

	return `
=====================================
      CONTRIBUTION RECEIPT
=====================================
Receipt ID:  ` + receipt.ID + `
Transaction: ` + receipt.TransactionID + `
` + ledgerLine + `Date:        ` + receipt.SettledAt.Format("Jan 02, 2006 3:04 PM") + `

CAMPAIGN
-------------------------------------
` + receipt.CampaignTitle + ` (` + receipt.CampaignID + `)

PAYMENT
-------------------------------------
Amount:      ` + receipt.Amount.StringFixed(2) + `
` + nativeLine + `Method:      ` + string(receipt.Method) + `
Status:      ` + string(receipt.Status) + `

=====================================
  Thank you for supporting your community!
=====================================
`
}
