package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dchanga/internal/service"
)

// VerificationHandler handles HTTP requests for verification.
type VerificationHandler struct {
	verificationService *service.VerificationService
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(verificationService *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// VerifyTransactionRequest is the HTTP request body for verifying a transaction ID.
type VerifyTransactionRequest struct {
	TransactionID string `json:"transactionId"`
	CampaignID    string `json:"campaignId"`
}

// VerifyTransactionResponse is the HTTP response for transaction verification.
type VerifyTransactionResponse struct {
	TransactionID string `json:"transactionId"`
	CampaignID    string `json:"campaignId"`
	Verified      bool   `json:"verified"`
	VerifiedAt    string `json:"verifiedAt"`
	Status        string `json:"status"`
}

// VerifyQRRequest is the HTTP request body for verifying a QR payload.
// QRData is either a JSON string or an inline object.
type VerifyQRRequest struct {
	QRData json.RawMessage `json:"qrData"`
}

// VerifyQRResponse is the HTTP response for QR verification.
type VerifyQRResponse struct {
	TransactionID string          `json:"transactionId"`
	CampaignID    string          `json:"campaignId"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method,omitempty"`
	Verified      bool            `json:"verified"`
	VerifiedAt    string          `json:"verifiedAt"`
	Status        string          `json:"status"`
}

// VerifyTransaction handles POST /v1/transactions/verify
func (h *VerificationHandler) VerifyTransaction(c *gin.Context) {
	var req VerifyTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	res, err := h.verificationService.VerifyTransaction(c.Request.Context(), req.TransactionID, req.CampaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, VerifyTransactionResponse{
		TransactionID: res.TransactionID,
		CampaignID:    res.CampaignID,
		Verified:      res.Verified,
		VerifiedAt:    res.VerifiedAt.Format(time.RFC3339),
		Status:        string(res.Status),
	})
}

// VerifyQR handles POST /v1/qr/verify
func (h *VerificationHandler) VerifyQR(c *gin.Context) {
	var req VerifyQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	res, err := h.verificationService.VerifyQR(c.Request.Context(), req.QRData)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, VerifyQRResponse{
		TransactionID: res.Payload.TransactionID,
		CampaignID:    res.Payload.CampaignID,
		Amount:        res.Payload.Amount,
		Method:        res.Payload.Method,
		Verified:      res.Verified,
		VerifiedAt:    res.VerifiedAt.Format(time.RFC3339),
		Status:        "confirmed",
	})
}
