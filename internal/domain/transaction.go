package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the settlement status of a transaction record.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// TransactionRecord links an application transaction to its campaign and,
// once settled on the ledger, to the network transaction ID.
type TransactionRecord struct {
	TransactionID       string
	CampaignID          string
	Amount              decimal.Decimal
	Contributor         string
	Timestamp           time.Time
	Status              TransactionStatus
	LedgerTransactionID string
}
