package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CampaignStatus represents the lifecycle status of a campaign.
type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusPending   CampaignStatus = "pending"
)

// MilestoneStatus represents whether a milestone has been reached.
type MilestoneStatus string

const (
	MilestoneStatusCompleted MilestoneStatus = "completed"
	MilestoneStatusPending   MilestoneStatus = "pending"
)

// Milestone is a funding stage released once the campaign reaches it.
type Milestone struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Status      MilestoneStatus `json:"status"`
}

// Campaign represents a community fundraising campaign.
type Campaign struct {
	ID              string
	Title           string
	Description     string
	FullDescription string
	Goal            decimal.Decimal
	Raised          decimal.Decimal
	Contributors    int
	Image           string
	Category        string
	Status          CampaignStatus
	Progress        int // Percent of goal raised, capped at 100
	Location        string
	CreatedBy       string
	CreatedDate     time.Time
	Milestones      []Milestone
}

// ComputeProgress returns the whole percentage of goal raised, capped at 100.
func (c *Campaign) ComputeProgress() int {
	if !c.Goal.IsPositive() {
		return 0
	}
	pct := c.Raised.Mul(decimal.NewFromInt(100)).Div(c.Goal).IntPart()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return int(pct)
}
