package service

import (
	"context"
	"fmt"

	"dchanga/internal/ledger"
)

// TreasuryResolver resolves the ledger account that receives a campaign's contributions.
type TreasuryResolver interface {
	ResolveTreasury(ctx context.Context, campaignID string) (string, error)
}

// StaticTreasuryResolver resolves treasuries from a fixed campaign→account map,
// falling back to a default account when one is configured.
type StaticTreasuryResolver struct {
	accounts map[string]string
	fallback string
}

// NewStaticTreasuryResolver creates a resolver. fallback may be empty.
func NewStaticTreasuryResolver(accounts map[string]string, fallback string) *StaticTreasuryResolver {
	copied := make(map[string]string, len(accounts))
	for k, v := range accounts {
		copied[k] = v
	}
	return &StaticTreasuryResolver{accounts: copied, fallback: fallback}
}

func (r *StaticTreasuryResolver) ResolveTreasury(ctx context.Context, campaignID string) (string, error) {
	account, ok := r.accounts[campaignID]
	if !ok {
		account = r.fallback
	}
	if account == "" {
		return "", fmt.Errorf("%w %s", ErrNoTreasury, campaignID)
	}
	if !ledger.ValidAccountID(account) {
		return "", fmt.Errorf("%w %s: malformed account id", ErrNoTreasury, campaignID)
	}
	return account, nil
}
