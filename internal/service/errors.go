package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error categories. Every error returned by a service wraps exactly one of
// these (or repository.ErrNotFound / repository.ErrConflict).
var (
	// ErrValidation marks malformed or missing caller input.
	ErrValidation = errors.New("validation failed")

	// ErrConfig marks missing or unusable deployment credentials.
	ErrConfig = errors.New("service misconfigured")

	// ErrNetwork marks a failed call to the ledger network.
	ErrNetwork = errors.New("ledger network error")

	// ErrInsufficientFunds marks a payer balance too low for a transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDecode marks a payload that could not be parsed.
	ErrDecode = errors.New("decode failed")
)

var (
	// ErrInvalidCampaignID is returned when campaign ID is empty.
	ErrInvalidCampaignID = fmt.Errorf("%w: campaign id is required", ErrValidation)

	// ErrInvalidTransactionID is returned when transaction ID is empty.
	ErrInvalidTransactionID = fmt.Errorf("%w: transaction id is required", ErrValidation)

	// ErrInvalidContributionID is returned when contribution ID is empty.
	ErrInvalidContributionID = fmt.Errorf("%w: contribution id is required", ErrValidation)

	// ErrInvalidAmount is returned when an amount is missing or not positive.
	ErrInvalidAmount = fmt.Errorf("%w: amount must be greater than 0", ErrValidation)

	// ErrInvalidContributor is returned when the contributor is missing.
	ErrInvalidContributor = fmt.Errorf("%w: contributor is required", ErrValidation)

	// ErrInvalidPaymentMethod is returned when payment method is unknown.
	ErrInvalidPaymentMethod = fmt.Errorf("%w: invalid payment method", ErrValidation)

	// ErrInvalidRecipient is returned when a recipient account ID is missing or malformed.
	ErrInvalidRecipient = fmt.Errorf("%w: invalid recipient account id", ErrValidation)

	// ErrMissingCampaignFields is returned when a campaign lacks required fields.
	ErrMissingCampaignFields = fmt.Errorf("%w: title, description, goal and location are required", ErrValidation)

	// ErrUnrecognizedTransaction is returned when a transaction ID has no accepted prefix.
	ErrUnrecognizedTransaction = fmt.Errorf("%w: invalid transaction id", ErrValidation)

	// ErrScanNotVerified is returned when a scanned confirmation is not tagged as verified.
	ErrScanNotVerified = fmt.Errorf("%w: scanned code is not a verified confirmation", ErrValidation)

	// ErrContributionFinalized is returned when a succeeded or failed contribution is asked to move again.
	ErrContributionFinalized = fmt.Errorf("%w: contribution already finalized", ErrValidation)

	// ErrNotAwaitingConfirmation is returned when confirming a contribution that is not qr-pending.
	ErrNotAwaitingConfirmation = fmt.Errorf("%w: contribution is not awaiting confirmation", ErrValidation)

	// ErrLedgerNotConfigured is returned when ledger credentials are absent.
	ErrLedgerNotConfigured = fmt.Errorf("%w: ledger credentials not configured", ErrConfig)

	// ErrNoTreasury is returned when no treasury account is configured for a campaign.
	ErrNoTreasury = fmt.Errorf("%w: no treasury account for campaign", ErrConfig)
)

// InsufficientFundsError reports the native amount a transfer needed and the
// balance that was available.
type InsufficientFundsError struct {
	Needed    decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	if e.Needed.IsZero() && e.Available.IsZero() {
		return "Insufficient balance"
	}
	return fmt.Sprintf("Insufficient balance. You have %s but need %s", e.Available.StringFixed(2), e.Needed.StringFixed(2))
}

// Is reports ErrInsufficientFunds as the category.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
