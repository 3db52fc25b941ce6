package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"dchanga/internal/ledger"
)

// AccountLocker serialises transfers that debit the same ledger account.
type AccountLocker interface {
	LockAccount(ctx context.Context, accountID string) (unlock func(), err error)
}

// LocalAccountLocker queues transfers per account inside one process.
type LocalAccountLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocalAccountLocker creates an in-process account locker.
func NewLocalAccountLocker() *LocalAccountLocker {
	return &LocalAccountLocker{slots: make(map[string]chan struct{})}
}

// LockAccount blocks until the account is free or ctx is done.
func (l *LocalAccountLocker) LockAccount(ctx context.Context, accountID string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[accountID]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[accountID] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LedgerService wraps the ledger client with scoped connections, transfer
// serialisation and error translation.
type LedgerService struct {
	connector ledger.Connector
	locker    AccountLocker
}

// NewLedgerService creates a new LedgerService. A nil locker uses an in-process one.
func NewLedgerService(connector ledger.Connector, locker AccountLocker) *LedgerService {
	if locker == nil {
		locker = NewLocalAccountLocker()
	}
	return &LedgerService{
		connector: connector,
		locker:    locker,
	}
}

// Balance is the operator account's spendable balance.
type Balance struct {
	AccountID string
	Balance   decimal.Decimal
}

// GetBalance queries the operator account balance.
func (s *LedgerService) GetBalance(ctx context.Context) (*Balance, error) {
	var result *Balance
	err := s.withClient(ctx, func(client ledger.Client) error {
		balance, err := client.Balance(ctx)
		if err != nil {
			return err
		}
		result = &Balance{AccountID: client.AccountID(), Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SendPaymentRequest contains the parameters for a direct ledger transfer.
type SendPaymentRequest struct {
	TransactionID string
	Recipient     string
	Amount        decimal.Decimal
}

// SendPaymentResult is the outcome of a confirmed ledger transfer.
type SendPaymentResult struct {
	TransactionID       string
	LedgerTransactionID string
	Amount              decimal.Decimal
}

// SendPayment transfers native units to a recipient. The network's own
// insufficient-balance answer is authoritative; no pre-check is made.
func (s *LedgerService) SendPayment(ctx context.Context, req SendPaymentRequest) (*SendPaymentResult, error) {
	if req.TransactionID == "" {
		return nil, ErrInvalidTransactionID
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !ledger.ValidAccountID(req.Recipient) {
		return nil, ErrInvalidRecipient
	}

	ledgerTxID, err := s.transfer(ctx, req.Recipient, req.Amount, false)
	if err != nil {
		return nil, err
	}

	return &SendPaymentResult{
		TransactionID:       req.TransactionID,
		LedgerTransactionID: ledgerTxID,
		Amount:              req.Amount,
	}, nil
}

// TransferWithBalanceCheck checks the operator balance and, if it covers
// amount, transfers to recipient. Check and transfer run under the account
// lock; a lower balance yields *InsufficientFundsError and no transfer.
func (s *LedgerService) TransferWithBalanceCheck(ctx context.Context, recipient string, amount decimal.Decimal) (string, error) {
	return s.transfer(ctx, recipient, amount, true)
}

func (s *LedgerService) transfer(ctx context.Context, recipient string, amount decimal.Decimal, precheck bool) (string, error) {
	var ledgerTxID string
	err := s.withClient(ctx, func(client ledger.Client) error {
		unlock, err := s.locker.LockAccount(ctx, client.AccountID())
		if err != nil {
			return fmt.Errorf("%w: %v", ledger.ErrUnavailable, err)
		}
		defer unlock()

		if precheck {
			balance, err := client.Balance(ctx)
			if err != nil {
				return err
			}
			if balance.LessThan(amount) {
				return &InsufficientFundsError{Needed: amount, Available: balance}
			}
		}

		ledgerTxID, err = client.Transfer(ctx, recipient, amount)
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return &InsufficientFundsError{Needed: amount}
		}
		return err
	})
	return ledgerTxID, err
}

// withClient opens a client for one operation and always closes it.
func (s *LedgerService) withClient(ctx context.Context, fn func(ledger.Client) error) error {
	client, err := s.connector.Connect(ctx)
	if err != nil {
		return translateLedgerError(err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Printf("[ledger] failed to close client: %v", err)
		}
	}()

	return translateLedgerError(fn(client))
}

// translateLedgerError maps ledger errors onto service categories. Details of
// configuration and network failures are logged, not returned.
func translateLedgerError(err error) error {
	var insufficient *InsufficientFundsError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &insufficient):
		return insufficient
	case errors.Is(err, ledger.ErrNotConfigured):
		log.Printf("[ledger] configuration error: %v", err)
		return ErrLedgerNotConfigured
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return &InsufficientFundsError{}
	case errors.Is(err, ledger.ErrInvalidAmount):
		return ErrInvalidAmount
	case errors.Is(err, ledger.ErrInvalidRecipient):
		return ErrInvalidRecipient
	default:
		log.Printf("[ledger] network error: %v", err)
		return fmt.Errorf("%w: ledger request failed", ErrNetwork)
	}
}
