package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
	"dchanga/internal/service"
)

// ContributionHandler handles HTTP requests for contributions.
type ContributionHandler struct {
	contributionService *service.ContributionService
}

// NewContributionHandler creates a new ContributionHandler.
func NewContributionHandler(contributionService *service.ContributionService) *ContributionHandler {
	return &ContributionHandler{contributionService: contributionService}
}

// ContributeRequest is the HTTP request body for contributing to a campaign.
type ContributeRequest struct {
	Amount           decimal.Decimal `json:"amount"`
	ContributorEmail string          `json:"contributorEmail"`
	Method           string          `json:"method"`
}

// CreateContributionRequest is the HTTP request body for recording a pending contribution.
type CreateContributionRequest struct {
	CampaignID       string          `json:"campaignId"`
	Amount           decimal.Decimal `json:"amount"`
	ContributorEmail string          `json:"contributorEmail"`
	TransactionID    string          `json:"transactionId,omitempty"`
	Method           string          `json:"method,omitempty"`
}

// ConfirmContributionRequest carries the text read from a confirmation QR code.
type ConfirmContributionRequest struct {
	Scanned string `json:"scanned"`
}

// ContributionResponse is the HTTP response for contribution operations.
type ContributionResponse struct {
	ID                  string           `json:"id"`
	CampaignID          string           `json:"campaignId"`
	Amount              decimal.Decimal  `json:"amount"`
	ContributorEmail    string           `json:"contributorEmail"`
	Method              string           `json:"method,omitempty"`
	TransactionID       string           `json:"transactionId"`
	State               string           `json:"state"`
	Status              string           `json:"status"`
	NativeAmount        *decimal.Decimal `json:"nativeAmount,omitempty"`
	HederaTransactionID string           `json:"hederaTransactionId,omitempty"`
	FailureReason       string           `json:"failureReason,omitempty"`
	NeedsReconciliation bool             `json:"needsReconciliation,omitempty"`
	Timestamp           string           `json:"timestamp"`
}

// ContributeResponse is the HTTP response for a contribution attempt.
type ContributeResponse struct {
	Contribution ContributionResponse `json:"contribution"`
	QRData       string               `json:"qrData,omitempty"`
	Error        string               `json:"error,omitempty"`
	Needed       string               `json:"needed,omitempty"`
	Available    string               `json:"available,omitempty"`
}

// ReceiptResponse is the HTTP response for a contribution receipt.
type ReceiptResponse struct {
	ID                  string          `json:"id"`
	TransactionID       string          `json:"transactionId"`
	HederaTransactionID string          `json:"hederaTransactionId,omitempty"`
	CampaignID          string          `json:"campaignId"`
	CampaignTitle       string          `json:"campaignTitle"`
	ContributorEmail    string          `json:"contributorEmail"`
	Amount              decimal.Decimal `json:"amount"`
	Method              string          `json:"method"`
	Status              string          `json:"status"`
	SettledAt           string          `json:"settledAt"`
}

// Contribute handles POST /v1/campaigns/:id/contribute
func (h *ContributionHandler) Contribute(c *gin.Context) {
	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	res, err := h.contributionService.Contribute(c.Request.Context(), service.ContributeRequest{
		CampaignID:       c.Param("id"),
		Amount:           req.Amount,
		ContributorEmail: req.ContributorEmail,
		Method:           domain.PaymentMethod(req.Method),
	})
	if err != nil {
		if res == nil || res.Contribution == nil {
			respondError(c, err)
			return
		}
		// Settlement failed after the contribution was created.
		_ = c.Error(err)
		body := ContributeResponse{
			Contribution: toContributionResponse(res.Contribution),
			Error:        res.Contribution.FailureReason,
		}
		var insufficient *service.InsufficientFundsError
		if errors.As(err, &insufficient) {
			body.Needed = insufficient.Needed.String()
			body.Available = insufficient.Available.String()
		}
		respondJSON(c, mapErrorToHTTPStatus(err), body)
		return
	}

	code := http.StatusCreated
	if res.Contribution.State == domain.ContributionStateQRPending {
		code = http.StatusAccepted
	}
	respondJSON(c, code, ContributeResponse{
		Contribution: toContributionResponse(res.Contribution),
		QRData:       res.QRPayload,
	})
}

// ListContributions handles GET /v1/contributions[?campaignId=]
func (h *ContributionHandler) ListContributions(c *gin.Context) {
	contributions, err := h.contributionService.ListContributions(c.Request.Context(), c.Query("campaignId"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]ContributionResponse, 0, len(contributions))
	for _, contribution := range contributions {
		resp = append(resp, toContributionResponse(contribution))
	}
	respondJSON(c, http.StatusOK, resp)
}

// CreateContribution handles POST /v1/contributions
func (h *ContributionHandler) CreateContribution(c *gin.Context) {
	var req CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	contribution, err := h.contributionService.CreateContribution(c.Request.Context(), service.CreateContributionRequest{
		CampaignID:       req.CampaignID,
		Amount:           req.Amount,
		ContributorEmail: req.ContributorEmail,
		TransactionID:    req.TransactionID,
		Method:           domain.PaymentMethod(req.Method),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toContributionResponse(contribution))
}

// GetContribution handles GET /v1/contributions/:id
func (h *ContributionHandler) GetContribution(c *gin.Context) {
	contribution, err := h.contributionService.GetContribution(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toContributionResponse(contribution))
}

// ConfirmContribution handles POST /v1/contributions/:id/confirm
func (h *ContributionHandler) ConfirmContribution(c *gin.Context) {
	var req ConfirmContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	contribution, err := h.contributionService.Confirm(c.Request.Context(), c.Param("id"), req.Scanned)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toContributionResponse(contribution))
}

// ConfirmTransaction handles POST /v1/transactions/:id/confirm, confirming by
// the transaction ID carried in the QR payload.
func (h *ContributionHandler) ConfirmTransaction(c *gin.Context) {
	var req ConfirmContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	contribution, err := h.contributionService.ConfirmTransaction(c.Request.Context(), c.Param("id"), req.Scanned)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toContributionResponse(contribution))
}

// GetQRCode handles GET /v1/contributions/:id/qr.png[?size=]
func (h *ContributionHandler) GetQRCode(c *gin.Context) {
	size := service.DefaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 64 || n > 1024 {
			respondBadRequest(c, "size must be between 64 and 1024")
			return
		}
		size = n
	}

	png, err := h.contributionService.QRCode(c.Request.Context(), c.Param("id"), size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetReceipt handles GET /v1/contributions/:id/receipt. Plain text with ?format=text.
func (h *ContributionHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.contributionService.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(http.StatusOK, h.contributionService.FormatReceipt(receipt))
		return
	}

	respondJSON(c, http.StatusOK, ReceiptResponse{
		ID:                  receipt.ID,
		TransactionID:       receipt.TransactionID,
		HederaTransactionID: receipt.LedgerTransactionID,
		CampaignID:          receipt.CampaignID,
		CampaignTitle:       receipt.CampaignTitle,
		ContributorEmail:    receipt.ContributorEmail,
		Amount:              receipt.Amount,
		Method:              string(receipt.Method),
		Status:              string(receipt.Status),
		SettledAt:           receipt.SettledAt.UTC().Format(time.RFC3339),
	})
}

func toContributionResponse(c *domain.Contribution) ContributionResponse {
	resp := ContributionResponse{
		ID:                  c.ID,
		CampaignID:          c.CampaignID,
		Amount:              c.Amount,
		ContributorEmail:    c.ContributorEmail,
		Method:              string(c.Method),
		TransactionID:       c.TransactionID,
		State:               string(c.State),
		Status:              string(c.Status),
		HederaTransactionID: c.LedgerTransactionID,
		FailureReason:       c.FailureReason,
		NeedsReconciliation: c.NeedsReconciliation,
		Timestamp:           c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c.NativeAmount.IsPositive() {
		native := c.NativeAmount
		resp.NativeAmount = &native
	}
	return resp
}
