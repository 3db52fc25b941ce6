package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
	"dchanga/internal/service"
)

// CampaignHandler handles HTTP requests for campaigns.
type CampaignHandler struct {
	campaignService    *service.CampaignService
	transactionService *service.TransactionService
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(campaignService *service.CampaignService, transactionService *service.TransactionService) *CampaignHandler {
	return &CampaignHandler{
		campaignService:    campaignService,
		transactionService: transactionService,
	}
}

// MilestoneBody is the wire form of a campaign milestone.
type MilestoneBody struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status,omitempty"`
}

// CreateCampaignRequest is the HTTP request body for creating a campaign.
type CreateCampaignRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	FullDescription string          `json:"fullDescription,omitempty"`
	Goal            decimal.Decimal `json:"goal"`
	Image           string          `json:"image,omitempty"`
	Category        string          `json:"category,omitempty"`
	Location        string          `json:"location"`
	CreatedBy       string          `json:"createdBy,omitempty"`
	Milestones      []MilestoneBody `json:"milestones,omitempty"`
}

// CampaignResponse is the HTTP response for campaign operations.
type CampaignResponse struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	FullDescription string          `json:"fullDescription,omitempty"`
	Goal            decimal.Decimal `json:"goal"`
	Raised          decimal.Decimal `json:"raised"`
	Contributors    int             `json:"contributors"`
	Image           string          `json:"image,omitempty"`
	Category        string          `json:"category,omitempty"`
	Status          string          `json:"status"`
	Progress        int             `json:"progress"`
	Location        string          `json:"location"`
	CreatedBy       string          `json:"createdBy,omitempty"`
	CreatedDate     string          `json:"createdDate"`
	Milestones      []MilestoneBody `json:"milestones"`
}

// CampaignTransactionsResponse lists the transaction records of one campaign.
type CampaignTransactionsResponse struct {
	CampaignID   string                `json:"campaignId"`
	Count        int                   `json:"count"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ListCampaigns handles GET /v1/campaigns. With ?id= it returns that campaign.
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		h.respondCampaign(c, id)
		return
	}

	campaigns, err := h.campaignService.ListCampaigns(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		resp = append(resp, toCampaignResponse(campaign))
	}
	respondJSON(c, http.StatusOK, resp)
}

// GetCampaign handles GET /v1/campaigns/:id
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	h.respondCampaign(c, c.Param("id"))
}

func (h *CampaignHandler) respondCampaign(c *gin.Context, id string) {
	campaign, err := h.campaignService.GetCampaign(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toCampaignResponse(campaign))
}

// CreateCampaign handles POST /v1/campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	milestones := make([]domain.Milestone, 0, len(req.Milestones))
	for _, m := range req.Milestones {
		milestones = append(milestones, domain.Milestone{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Amount:      m.Amount,
			Status:      domain.MilestoneStatus(m.Status),
		})
	}

	campaign, err := h.campaignService.CreateCampaign(c.Request.Context(), service.CreateCampaignRequest{
		Title:           req.Title,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Goal:            req.Goal,
		Image:           req.Image,
		Category:        req.Category,
		Location:        req.Location,
		CreatedBy:       req.CreatedBy,
		Milestones:      milestones,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toCampaignResponse(campaign))
}

// ListTransactions handles GET /v1/campaigns/:id/transactions
func (h *CampaignHandler) ListTransactions(c *gin.Context) {
	respondCampaignTransactions(c, h.transactionService, c.Param("id"))
}

func respondCampaignTransactions(c *gin.Context, svc *service.TransactionService, campaignID string) {
	records, err := svc.ListByCampaign(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := CampaignTransactionsResponse{
		CampaignID:   campaignID,
		Count:        len(records),
		Transactions: make([]TransactionResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(r))
	}
	respondJSON(c, http.StatusOK, resp)
}

func toCampaignResponse(c *domain.Campaign) CampaignResponse {
	resp := CampaignResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		FullDescription: c.FullDescription,
		Goal:            c.Goal,
		Raised:          c.Raised,
		Contributors:    c.Contributors,
		Image:           c.Image,
		Category:        c.Category,
		Status:          string(c.Status),
		Progress:        c.Progress,
		Location:        c.Location,
		CreatedBy:       c.CreatedBy,
		CreatedDate:     c.CreatedDate.Format("2006-01-02"),
		Milestones:      make([]MilestoneBody, 0, len(c.Milestones)),
	}
	for _, m := range c.Milestones {
		resp.Milestones = append(resp.Milestones, MilestoneBody{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Amount:      m.Amount,
			Status:      string(m.Status),
		})
	}
	return resp
}
