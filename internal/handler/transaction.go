package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
	"dchanga/internal/service"
)

// TransactionHandler handles HTTP requests for transaction records.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// RecordTransactionRequest is the HTTP request body for recording a transaction.
type RecordTransactionRequest struct {
	TransactionID       string          `json:"transactionId"`
	CampaignID          string          `json:"campaignId"`
	Amount              decimal.Decimal `json:"amount"`
	Contributor         string          `json:"contributor"`
	HederaTransactionID string          `json:"hederaTransactionId,omitempty"`
}

// TransactionResponse is the HTTP response for a transaction record.
type TransactionResponse struct {
	TransactionID       string          `json:"transactionId"`
	CampaignID          string          `json:"campaignId"`
	Amount              decimal.Decimal `json:"amount"`
	Contributor         string          `json:"contributor"`
	Timestamp           string          `json:"timestamp"`
	Status              string          `json:"status"`
	HederaTransactionID string          `json:"hederaTransactionId,omitempty"`
}

// RecordTransaction handles POST /v1/transactions
func (h *TransactionHandler) RecordTransaction(c *gin.Context) {
	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.TransactionID == "" || req.CampaignID == "" || req.Contributor == "" || req.Amount.IsZero() {
		respondBadRequest(c, "transactionId, campaignId, amount and contributor are required")
		return
	}

	record, err := h.transactionService.RecordTransaction(c.Request.Context(), service.RecordTransactionRequest{
		TransactionID:       req.TransactionID,
		CampaignID:          req.CampaignID,
		Amount:              req.Amount,
		Contributor:         req.Contributor,
		LedgerTransactionID: req.HederaTransactionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTransactionResponse(record))
}

// ListTransactions handles GET /v1/transactions?campaignId=
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	campaignID := c.Query("campaignId")
	if campaignID == "" {
		respondBadRequest(c, "missing campaignId parameter")
		return
	}
	respondCampaignTransactions(c, h.transactionService, campaignID)
}

// GetTransaction handles GET /v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	record, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTransactionResponse(record))
}

func toTransactionResponse(r *domain.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		TransactionID:       r.TransactionID,
		CampaignID:          r.CampaignID,
		Amount:              r.Amount,
		Contributor:         r.Contributor,
		Timestamp:           r.Timestamp.UTC().Format(time.RFC3339),
		Status:              string(r.Status),
		HederaTransactionID: r.LedgerTransactionID,
	}
}
