package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dchanga/internal/service"
)

// LedgerHandler handles HTTP requests against the operator ledger account.
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// BalanceResponse is the HTTP response for a balance query.
type BalanceResponse struct {
	Balance   decimal.Decimal `json:"balance"`
	AccountID string          `json:"accountId"`
}

// SendPaymentRequest is the HTTP request body for a direct ledger transfer.
type SendPaymentRequest struct {
	TransactionID      string          `json:"transactionId"`
	RecipientAccountID string          `json:"recipientAccountId"`
	Amount             decimal.Decimal `json:"amount"`
}

// SendPaymentResponse is the HTTP response for a confirmed transfer.
type SendPaymentResponse struct {
	Success             bool            `json:"success"`
	TransactionID       string          `json:"transactionId"`
	HederaTransactionID string          `json:"hederaTransactionId"`
	Amount              decimal.Decimal `json:"amount"`
	Status              string          `json:"status"`
}

// GetBalance handles GET /v1/ledger/balance
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	balance, err := h.ledgerService.GetBalance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BalanceResponse{
		Balance:   balance.Balance,
		AccountID: balance.AccountID,
	})
}

// SendPayment handles POST /v1/ledger/payments
func (h *LedgerHandler) SendPayment(c *gin.Context) {
	var req SendPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.TransactionID == "" || req.RecipientAccountID == "" || req.Amount.IsZero() {
		respondBadRequest(c, "amount, recipientAccountId and transactionId are required")
		return
	}

	res, err := h.ledgerService.SendPayment(c.Request.Context(), service.SendPaymentRequest{
		TransactionID: req.TransactionID,
		Recipient:     req.RecipientAccountID,
		Amount:        req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SendPaymentResponse{
		Success:             true,
		TransactionID:       res.TransactionID,
		HederaTransactionID: res.LedgerTransactionID,
		Amount:              res.Amount,
		Status:              "confirmed",
	})
}
