package ledger

import (
	"context"
	"errors"
	"regexp"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured is returned when operator credentials are absent or unusable.
	ErrNotConfigured = errors.New("ledger credentials not configured")

	// ErrUnavailable is returned when the ledger network cannot be reached or rejects a call.
	ErrUnavailable = errors.New("ledger network unavailable")

	// ErrInsufficientBalance is returned when the network reports the payer cannot cover a transfer.
	ErrInsufficientBalance = errors.New("insufficient ledger balance")

	// ErrInvalidAmount is returned when a transfer amount is not positive.
	ErrInvalidAmount = errors.New("transfer amount must be positive")

	// ErrInvalidRecipient is returned when a recipient account ID is malformed.
	ErrInvalidRecipient = errors.New("invalid recipient account id")
)

// Client is a handle on the configured operator account. A Client is scoped
// to one operation and must be closed after use.
type Client interface {
	// AccountID returns the operator account ID.
	AccountID() string

	// Balance returns the operator's spendable balance in native units.
	Balance(ctx context.Context) (decimal.Decimal, error)

	// Transfer moves amount native units from the operator to recipient and
	// returns the network-assigned transaction ID.
	Transfer(ctx context.Context, recipient string, amount decimal.Decimal) (string, error)

	// Close releases the underlying network connections.
	Close() error
}

// Connector opens ledger clients.
type Connector interface {
	Connect(ctx context.Context) (Client, error)
}

var accountIDPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// ValidAccountID reports whether id has the shard.realm.num form.
func ValidAccountID(id string) bool {
	return accountIDPattern.MatchString(id)
}

// ValidateTransfer checks transfer arguments before anything is submitted.
func ValidateTransfer(recipient string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !ValidAccountID(recipient) {
		return ErrInvalidRecipient
	}
	return nil
}
