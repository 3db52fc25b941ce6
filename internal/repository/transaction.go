package repository

import (
	"context"

	"dchanga/internal/domain"
)

// TransactionRepository is the append-only store of transaction records.
// Records are never deleted; only their status may change.
type TransactionRepository interface {
	// Append inserts a new record. Returns ErrConflict if the transaction ID exists.
	Append(ctx context.Context, record *domain.TransactionRecord) error

	// GetByID retrieves a record by application transaction ID.
	GetByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error)

	// GetByCampaignID retrieves the records of a campaign in insertion order.
	GetByCampaignID(ctx context.Context, campaignID string) ([]*domain.TransactionRecord, error)

	// UpdateStatus changes a record's status, setting the ledger transaction ID when non-empty.
	UpdateStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, ledgerTxID string) error
}
