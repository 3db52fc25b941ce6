package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dchanga/internal/ledger"
	"dchanga/internal/service"
)

// ──────────────────────────────────────────────
// 1. BALANCE
// ──────────────────────────────────────────────

func TestLedgerBalance_ReturnsOperatorBalance(t *testing.T) {
	t.Parallel()

	h := NewHarness("123.45")

	balance, err := h.LedgerService.GetBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, operatorAccount, balance.AccountID)
	assert.Equal(t, "123.45", balance.Balance.String())
	assert.Equal(t, int32(1), h.Network.ConnectCount)
	assert.Equal(t, int32(1), h.Network.CloseCount)
}

func TestLedgerBalance_NotConfigured(t *testing.T) {
	t.Parallel()

	h := NewHarness("1")
	h.Network.ConnectError = fmt.Errorf("%w: HEDERA_PRIVATE_KEY missing", ledger.ErrNotConfigured)

	_, err := h.LedgerService.GetBalance(context.Background())
	require.ErrorIs(t, err, service.ErrConfig)
	assert.NotContains(t, err.Error(), "HEDERA_PRIVATE_KEY")
}

func TestLedgerBalance_NetworkError_IsGeneric(t *testing.T) {
	t.Parallel()

	h := NewHarness("1")
	h.Network.BalanceError = fmt.Errorf("%w: dial tcp 10.0.0.1:50211", ledger.ErrUnavailable)

	_, err := h.LedgerService.GetBalance(context.Background())
	require.ErrorIs(t, err, service.ErrNetwork)
	assert.NotContains(t, err.Error(), "10.0.0.1")
	assert.Equal(t, int32(1), h.Network.CloseCount)
}

func TestLedgerBalance_DeadlineExpiry_IsNetworkError(t *testing.T) {
	t.Parallel()

	h := NewHarness("1")
	h.Network.Latency = time.Second
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := h.LedgerService.GetBalance(ctx)

	require.ErrorIs(t, err, service.ErrNetwork)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int32(1), h.Network.CloseCount)
}

// ──────────────────────────────────────────────
// 2. SEND PAYMENT
// ──────────────────────────────────────────────

func TestSendPayment_Succeeds(t *testing.T) {
	t.Parallel()

	h := NewHarness("100")

	res, err := h.LedgerService.SendPayment(context.Background(), service.SendPaymentRequest{
		TransactionID: "TX-1",
		Recipient:     "0.0.777",
		Amount:        decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	assert.Equal(t, "TX-1", res.TransactionID)
	assert.NotEmpty(t, res.LedgerTransactionID)
	assert.Equal(t, "60", h.Network.BalanceOf(operatorAccount).String())
	assert.Equal(t, "40", h.Network.BalanceOf("0.0.777").String())
	assert.Equal(t, int32(0), h.Network.BalanceCount)
}

func TestSendPayment_InvalidInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     service.SendPaymentRequest
		wantErr error
	}{
		{"missing transaction id", service.SendPaymentRequest{Recipient: "0.0.7", Amount: decimal.NewFromInt(1)}, service.ErrInvalidTransactionID},
		{"zero amount", service.SendPaymentRequest{TransactionID: "TX-1", Recipient: "0.0.7"}, service.ErrInvalidAmount},
		{"missing recipient", service.SendPaymentRequest{TransactionID: "TX-1", Amount: decimal.NewFromInt(1)}, service.ErrInvalidRecipient},
		{"malformed recipient", service.SendPaymentRequest{TransactionID: "TX-1", Recipient: "alice", Amount: decimal.NewFromInt(1)}, service.ErrInvalidRecipient},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := NewHarness("100")
			_, err := h.LedgerService.SendPayment(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, int32(0), h.Network.ConnectCount)
		})
	}
}

func TestSendPayment_NetworkRejectsOverdraft(t *testing.T) {
	t.Parallel()

	h := NewHarness("1")

	_, err := h.LedgerService.SendPayment(context.Background(), service.SendPaymentRequest{
		TransactionID: "TX-1",
		Recipient:     "0.0.777",
		Amount:        decimal.NewFromInt(40),
	})
	require.Error(t, err)

	var insufficient *service.InsufficientFundsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "40", insufficient.Needed.String())
	assert.Equal(t, int32(1), h.Network.TransferCount)
}

func TestSendPayment_CancelledContext(t *testing.T) {
	t.Parallel()

	h := NewHarness("100")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.LedgerService.SendPayment(ctx, service.SendPaymentRequest{
		TransactionID: "TX-1",
		Recipient:     "0.0.777",
		Amount:        decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, service.ErrNetwork)
	assert.Equal(t, "100", h.Network.BalanceOf(operatorAccount).String())
}

func TestSendPayment_DeadlineExpiry_NoTransfer(t *testing.T) {
	t.Parallel()

	h := NewHarness("100")
	h.Network.Latency = time.Second
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := h.LedgerService.SendPayment(ctx, service.SendPaymentRequest{
		TransactionID: "TX-1",
		Recipient:     "0.0.777",
		Amount:        decimal.NewFromInt(1),
	})

	require.ErrorIs(t, err, service.ErrNetwork)
	assert.Equal(t, "100", h.Network.BalanceOf(operatorAccount).String())
	assert.True(t, h.Network.BalanceOf("0.0.777").IsZero())
}
