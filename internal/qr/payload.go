// Package qr encodes the cross-device confirmation payload shown to
// contributors paying by mobile money or card.
package qr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

var (
	// ErrMalformed is returned when a payload is not well-formed JSON.
	ErrMalformed = errors.New("malformed qr payload")

	// ErrIncomplete is returned when transactionId, campaignId or amount is missing.
	ErrIncomplete = errors.New("incomplete qr payload")
)

// Payload is the data carried by a confirmation QR code.
type Payload struct {
	TransactionID string
	CampaignID    string
	Amount        decimal.Decimal
	Method        string
	Timestamp     time.Time
}

type wirePayload struct {
	TransactionID string           `json:"transactionId"`
	CampaignID    string           `json:"campaignId"`
	Amount        *decimal.Decimal `json:"amount"`
	Method        string           `json:"method,omitempty"`
	Timestamp     *time.Time       `json:"timestamp,omitempty"`
}

// Encode serialises p to compact JSON. Timestamps are written in UTC.
func Encode(p Payload) (string, error) {
	w := wirePayload{
		TransactionID: p.TransactionID,
		CampaignID:    p.CampaignID,
		Amount:        &p.Amount,
		Method:        p.Method,
	}
	if !p.Timestamp.IsZero() {
		ts := p.Timestamp.UTC()
		w.Timestamp = &ts
	}

	data, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr payload: %w", err)
	}
	return string(data), nil
}

// Decode parses a payload produced by Encode.
func Decode(s string) (Payload, error) {
	var w wirePayload
	if err := json.Unmarshal([]byte(s), &w); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case w.TransactionID == "":
		return Payload{}, fmt.Errorf("%w: transactionId is required", ErrIncomplete)
	case w.CampaignID == "":
		return Payload{}, fmt.Errorf("%w: campaignId is required", ErrIncomplete)
	case w.Amount == nil || !w.Amount.IsPositive():
		return Payload{}, fmt.Errorf("%w: amount is required", ErrIncomplete)
	}

	p := Payload{
		TransactionID: w.TransactionID,
		CampaignID:    w.CampaignID,
		Amount:        *w.Amount,
		Method:        w.Method,
	}
	if w.Timestamp != nil {
		p.Timestamp = *w.Timestamp
	}
	return p, nil
}

// DecodeRaw accepts either a JSON string holding an encoded payload or the
// payload object itself.
func DecodeRaw(raw json.RawMessage) (Payload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Payload{}, fmt.Errorf("%w: qr data is required", ErrIncomplete)
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return Decode(s)
	}

	return Decode(string(trimmed))
}

// RenderPNG renders the encoded payload as a size×size PNG image.
func RenderPNG(p Payload, size int) ([]byte, error) {
	content, err := Encode(p)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
