package ledger

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// SimulatedConnector is an in-process stand-in for the ledger network used in
// tests and in local development when LEDGER_MODE=simulated. Balances move
// between accounts like the real network would; no value leaves the process.
type SimulatedConnector struct {
	mu       sync.Mutex
	operator string
	balances map[string]decimal.Decimal
	txSeq    int64

	// Counters for verification
	ConnectCount  int32
	CloseCount    int32
	BalanceCount  int32
	TransferCount int32

	// Latency delays every balance and transfer call; the call gives up
	// with ErrUnavailable when ctx ends first.
	Latency time.Duration

	// Error injection
	ConnectError  error
	BalanceError  error
	TransferError error
}

// NewSimulatedConnector creates a simulated network where operator holds balance.
func NewSimulatedConnector(operator string, balance decimal.Decimal) *SimulatedConnector {
	return &SimulatedConnector{
		operator: operator,
		balances: map[string]decimal.Decimal{operator: balance},
	}
}

// Connect returns a client bound to the operator account.
func (s *SimulatedConnector) Connect(ctx context.Context) (Client, error) {
	atomic.AddInt32(&s.ConnectCount, 1)
	if s.ConnectError != nil {
		return nil, s.ConnectError
	}
	return &simulatedClient{network: s}, nil
}

// SetBalance overrides the balance of an account.
func (s *SimulatedConnector) SetBalance(account string, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[account] = balance
}

// BalanceOf returns the balance of an account.
func (s *SimulatedConnector) BalanceOf(account string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[account]
}

func (s *SimulatedConnector) wait(ctx context.Context) error {
	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

type simulatedClient struct {
	network *SimulatedConnector
	closed  atomic.Bool
}

func (c *simulatedClient) AccountID() string {
	return c.network.operator
}

func (c *simulatedClient) Balance(ctx context.Context) (decimal.Decimal, error) {
	s := c.network
	atomic.AddInt32(&s.BalanceCount, 1)
	if err := s.wait(ctx); err != nil {
		return decimal.Zero, err
	}
	if s.BalanceError != nil {
		return decimal.Zero, s.BalanceError
	}
	return s.BalanceOf(s.operator), nil
}

// Transfer debits atomically, so a concurrent overdraft surfaces as
// ErrInsufficientBalance just like a network receipt would.
func (c *simulatedClient) Transfer(ctx context.Context, recipient string, amount decimal.Decimal) (string, error) {
	s := c.network
	atomic.AddInt32(&s.TransferCount, 1)
	if err := ValidateTransfer(recipient, amount); err != nil {
		return "", err
	}
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	if s.TransferError != nil {
		return "", s.TransferError
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.balances[s.operator].LessThan(amount) {
		return "", ErrInsufficientBalance
	}
	s.balances[s.operator] = s.balances[s.operator].Sub(amount)
	s.balances[recipient] = s.balances[recipient].Add(amount)
	s.txSeq++

	now := time.Now()
	return fmt.Sprintf("%s@%d.%09d", s.operator, now.Unix(), s.txSeq), nil
}

func (c *simulatedClient) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		atomic.AddInt32(&c.network.CloseCount, 1)
	}
	return nil
}
