package memory

import (
	"context"
	"sync"

	"dchanga/internal/domain"
	"dchanga/internal/repository"
)

// TransactionRepository is an in-process, append-only transaction record store.
// A single mutex guards reads and writes.
type TransactionRepository struct {
	mu      sync.RWMutex
	records []*domain.TransactionRecord
	index   map[string]int
}

// NewTransactionRepository creates an empty transaction record store.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{index: make(map[string]int)}
}

// Append inserts a new record.
func (r *TransactionRepository) Append(ctx context.Context, record *domain.TransactionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[record.TransactionID]; ok {
		return repository.ErrConflict
	}
	stored := *record
	r.index[record.TransactionID] = len(r.records)
	r.records = append(r.records, &stored)
	return nil
}

// GetByID retrieves a record by application transaction ID.
func (r *TransactionRepository) GetByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[transactionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r.records[i]
	return &cp, nil
}

// GetByCampaignID retrieves the records of a campaign in insertion order.
func (r *TransactionRepository) GetByCampaignID(ctx context.Context, campaignID string) ([]*domain.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.TransactionRecord, 0)
	for _, rec := range r.records {
		if rec.CampaignID == campaignID {
			cp := *rec
			result = append(result, &cp)
		}
	}
	return result, nil
}

// UpdateStatus changes a record's status in place.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, ledgerTxID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[transactionID]
	if !ok {
		return repository.ErrNotFound
	}
	r.records[i].Status = status
	if ledgerTxID != "" {
		r.records[i].LedgerTransactionID = ledgerTxID
	}
	return nil
}
