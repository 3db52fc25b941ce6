package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a contributor pays.
type PaymentMethod string

const (
	PaymentMethodMobileMoney  PaymentMethod = "mobile-money"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodLedgerWallet PaymentMethod = "ledger-wallet"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodMobileMoney, PaymentMethodCard, PaymentMethodLedgerWallet:
		return true
	}
	return false
}

// SettlesOnLedger reports whether the method pays through the ledger network.
func (m PaymentMethod) SettlesOnLedger() bool {
	return m == PaymentMethodLedgerWallet
}

// ContributionState is a step of the contribution flow.
type ContributionState string

const (
	ContributionStateAmountEntry    ContributionState = "amount-entry"
	ContributionStateMethodSelected ContributionState = "payment-method-selected"
	ContributionStateProcessing     ContributionState = "processing"
	ContributionStateQRPending      ContributionState = "qr-pending"
	ContributionStateSucceeded      ContributionState = "succeeded"
	ContributionStateFailed         ContributionState = "failed"
)

// Terminal reports whether no transition leaves the state.
func (s ContributionState) Terminal() bool {
	return s == ContributionStateSucceeded || s == ContributionStateFailed
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s ContributionState) CanTransitionTo(next ContributionState) bool {
	switch s {
	case ContributionStateAmountEntry:
		return next == ContributionStateMethodSelected
	case ContributionStateMethodSelected:
		return next == ContributionStateProcessing || next == ContributionStateQRPending
	case ContributionStateProcessing, ContributionStateQRPending:
		return next == ContributionStateSucceeded || next == ContributionStateFailed
	default:
		return false
	}
}

// ContributionStatus is the settlement status exposed to callers.
type ContributionStatus string

const (
	ContributionStatusPending   ContributionStatus = "pending"
	ContributionStatusConfirmed ContributionStatus = "confirmed"
	ContributionStatusFailed    ContributionStatus = "failed"
)

// Contribution represents a single pledge towards a campaign.
type Contribution struct {
	ID                  string
	CampaignID          string
	Amount              decimal.Decimal
	ContributorEmail    string
	Method              PaymentMethod
	TransactionID       string // Application transaction ID
	State               ContributionState
	Status              ContributionStatus
	NativeAmount        decimal.Decimal // Amount in ledger units, ledger-wallet only
	LedgerTransactionID string
	FailureReason       string
	// NeedsReconciliation is set when the ledger transfer settled but no
	// transaction record could be written for it.
	NeedsReconciliation bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
