package tests

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dchanga/internal/domain"
	"dchanga/internal/repository"
	"dchanga/internal/service"
)

// ──────────────────────────────────────────────
// 1. RECORDING
// ──────────────────────────────────────────────

func TestRecordTransaction_StatusFollowsLedgerID(t *testing.T) {
	t.Parallel()

	h := NewHarness("0")
	ctx := context.Background()

	pending, err := h.TransactionService.RecordTransaction(ctx, service.RecordTransactionRequest{
		TransactionID: "TX-A",
		CampaignID:    "1",
		Amount:        decimal.NewFromInt(10),
		Contributor:   "amina@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPending, pending.Status)

	confirmed, err := h.TransactionService.RecordTransaction(ctx, service.RecordTransactionRequest{
		TransactionID:       "TX-B",
		CampaignID:          "1",
		Amount:              decimal.NewFromInt(10),
		Contributor:         "amina@example.com",
		LedgerTransactionID: "0.0.1001@1700000000.000000001",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusConfirmed, confirmed.Status)

	records, err := h.TransactionService.ListByCampaign(ctx, "1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "TX-A", records[0].TransactionID)
	assert.Equal(t, "TX-B", records[1].TransactionID)
}

func TestRecordTransaction_DuplicateRejected(t *testing.T) {
	t.Parallel()

	h := NewHarness("0")
	ctx := context.Background()
	req := service.RecordTransactionRequest{
		TransactionID: "TX-A",
		CampaignID:    "1",
		Amount:        decimal.NewFromInt(10),
		Contributor:   "amina@example.com",
	}

	_, err := h.TransactionService.RecordTransaction(ctx, req)
	require.NoError(t, err)
	_, err = h.TransactionService.RecordTransaction(ctx, req)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestRecordTransaction_MissingFields(t *testing.T) {
	t.Parallel()

	h := NewHarness("0")
	_, err := h.TransactionService.RecordTransaction(context.Background(), service.RecordTransactionRequest{
		TransactionID: "TX-A",
		CampaignID:    "1",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestGetTransaction_Unknown(t *testing.T) {
	t.Parallel()

	h := NewHarness("0")
	_, err := h.TransactionService.GetTransaction(context.Background(), "TX-NOPE")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// ──────────────────────────────────────────────
// 2. VERIFICATION
// ──────────────────────────────────────────────

func TestVerifyTransaction_Prefixes(t *testing.T) {
	t.Parallel()

	svc := service.NewVerificationService()

	testCases := []struct {
		id       string
		verified bool
	}{
		{"TX-123", true},
		{"TRANS-9", true},
		{"XYZ", false},
		{"tx-123", false},
	}

	for _, tc := range testCases {
		res, err := svc.VerifyTransaction(context.Background(), tc.id, "1")
		if tc.verified {
			require.NoError(t, err, tc.id)
			assert.True(t, res.Verified)
			assert.Equal(t, domain.TransactionStatusConfirmed, res.Status)
			assert.False(t, res.VerifiedAt.IsZero())
		} else {
			assert.ErrorIs(t, err, service.ErrUnrecognizedTransaction, tc.id)
		}
	}
}

func TestVerifyTransaction_MissingFields(t *testing.T) {
	t.Parallel()

	svc := service.NewVerificationService()

	_, err := svc.VerifyTransaction(context.Background(), "", "1")
	assert.ErrorIs(t, err, service.ErrValidation)
	_, err = svc.VerifyTransaction(context.Background(), "TX-1", "")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestVerifyQR_StringAndObject(t *testing.T) {
	t.Parallel()

	svc := service.NewVerificationService()
	object := `{"transactionId":"TX-1","campaignId":"2","amount":"75","method":"card"}`

	fromObject, err := svc.VerifyQR(context.Background(), json.RawMessage(object))
	require.NoError(t, err)
	assert.True(t, fromObject.Verified)
	assert.Equal(t, "TX-1", fromObject.Payload.TransactionID)

	quoted, err := json.Marshal(object)
	require.NoError(t, err)
	fromString, err := svc.VerifyQR(context.Background(), quoted)
	require.NoError(t, err)
	assert.Equal(t, fromObject.Payload.CampaignID, fromString.Payload.CampaignID)
	assert.True(t, fromObject.Payload.Amount.Equal(fromString.Payload.Amount))
}

func TestVerifyQR_Invalid(t *testing.T) {
	t.Parallel()

	svc := service.NewVerificationService()

	_, err := svc.VerifyQR(context.Background(), json.RawMessage(`"not json"`))
	assert.ErrorIs(t, err, service.ErrDecode)

	_, err = svc.VerifyQR(context.Background(), json.RawMessage(`{"campaignId":"2","amount":"5"}`))
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.VerifyQR(context.Background(), nil)
	assert.ErrorIs(t, err, service.ErrValidation)
}
