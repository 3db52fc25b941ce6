package qr

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	ts := time.Date(2025, time.March, 4, 10, 30, 0, 123456789, time.UTC)
	tests := []Payload{
		{TransactionID: "TX-1", CampaignID: "1", Amount: decimal.NewFromInt(1000), Method: "mobile-money", Timestamp: ts},
		{TransactionID: "TX-2", CampaignID: "campaign-2", Amount: decimal.RequireFromString("12.50"), Method: "card"},
		{TransactionID: "TX-3", CampaignID: "3", Amount: decimal.RequireFromString("0.01")},
	}

	for _, want := range tests {
		t.Run(want.TransactionID, func(t *testing.T) {
			encoded, err := Encode(want)
			require.NoError(t, err)

			got, err := Decode(encoded)
			require.NoError(t, err)

			assert.Equal(t, want.TransactionID, got.TransactionID)
			assert.Equal(t, want.CampaignID, got.CampaignID)
			assert.True(t, want.Amount.Equal(got.Amount), "amount %s != %s", want.Amount, got.Amount)
			assert.Equal(t, want.Method, got.Method)
			assert.True(t, want.Timestamp.Equal(got.Timestamp))
		})
	}
}

func TestEncode_FieldNames(t *testing.T) {
	encoded, err := Encode(Payload{TransactionID: "TX-1", CampaignID: "1", Amount: decimal.NewFromInt(5), Method: "card"})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(encoded), &fields))

	assert.Contains(t, fields, "transactionId")
	assert.Contains(t, fields, "campaignId")
	assert.Contains(t, fields, "amount")
	assert.Contains(t, fields, "method")
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not json", "TRANS-2025-001-VERIFIED", ErrMalformed},
		{"truncated", `{"transactionId":"TX-1"`, ErrMalformed},
		{"missing transaction", `{"campaignId":"1","amount":10}`, ErrIncomplete},
		{"missing campaign", `{"transactionId":"TX-1","amount":10}`, ErrIncomplete},
		{"missing amount", `{"transactionId":"TX-1","campaignId":"1"}`, ErrIncomplete},
		{"zero amount", `{"transactionId":"TX-1","campaignId":"1","amount":0}`, ErrIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode_AcceptsNumericAndStringAmounts(t *testing.T) {
	p, err := Decode(`{"transactionId":"TX-1","campaignId":"1","amount":"2500"}`)
	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(2500)))

	p, err = Decode(`{"transactionId":"TX-1","campaignId":"1","amount":2500.75}`)
	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("2500.75")))
}

func TestDecodeRaw(t *testing.T) {
	object := json.RawMessage(`{"transactionId":"TX-1","campaignId":"1","amount":10,"method":"card"}`)
	str, err := json.Marshal(string(object))
	require.NoError(t, err)

	fromObject, err := DecodeRaw(object)
	require.NoError(t, err)
	fromString, err := DecodeRaw(str)
	require.NoError(t, err)

	assert.Equal(t, fromObject.TransactionID, fromString.TransactionID)
	assert.Equal(t, "card", fromString.Method)

	_, err = DecodeRaw(nil)
	assert.ErrorIs(t, err, ErrIncomplete)

	_, err = DecodeRaw(json.RawMessage(`"not a payload"`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(Payload{TransactionID: "TX-1", CampaignID: "1", Amount: decimal.NewFromInt(10)}, 256)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
