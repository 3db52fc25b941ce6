package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dchanga/internal/domain"
	"dchanga/internal/qr"
)

// acceptedPrefixes are the transaction ID prefixes treated as verified.
// This is a placeholder policy, not a security boundary.
var acceptedPrefixes = []string{"TX-", "TRANS-"}

// VerificationService answers verification requests for transaction IDs and QR payloads.
type VerificationService struct {
	now func() time.Time
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService() *VerificationService {
	return &VerificationService{now: time.Now}
}

// TransactionVerification is the result of verifying a transaction ID.
type TransactionVerification struct {
	Verified      bool
	TransactionID string
	CampaignID    string
	Status        domain.TransactionStatus
	VerifiedAt    time.Time
}

// VerifyTransaction accepts IDs carrying a known prefix.
func (s *VerificationService) VerifyTransaction(ctx context.Context, transactionID, campaignID string) (*TransactionVerification, error) {
	if transactionID == "" {
		return nil, ErrInvalidTransactionID
	}
	if campaignID == "" {
		return nil, ErrInvalidCampaignID
	}
	if !hasAcceptedPrefix(transactionID) {
		return nil, ErrUnrecognizedTransaction
	}

	return &TransactionVerification{
		Verified:      true,
		TransactionID: transactionID,
		CampaignID:    campaignID,
		Status:        domain.TransactionStatusConfirmed,
		VerifiedAt:    s.now().UTC(),
	}, nil
}

// QRVerification is the result of verifying a QR payload.
type QRVerification struct {
	Verified   bool
	Payload    qr.Payload
	VerifiedAt time.Time
}

// VerifyQR decodes a scanned payload, given as a JSON string or object, and echoes its fields.
func (s *VerificationService) VerifyQR(ctx context.Context, raw json.RawMessage) (*QRVerification, error) {
	payload, err := qr.DecodeRaw(raw)
	if err != nil {
		switch {
		case errors.Is(err, qr.ErrIncomplete):
			return nil, fmt.Errorf("%w: qr data must include transactionId, campaignId and amount", ErrValidation)
		default:
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}

	return &QRVerification{
		Verified:   true,
		Payload:    payload,
		VerifiedAt: s.now().UTC(),
	}, nil
}

func hasAcceptedPrefix(transactionID string) bool {
	for _, prefix := range acceptedPrefixes {
		if strings.HasPrefix(transactionID, prefix) {
			return true
		}
	}
	return false
}
