package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"dchanga/internal/domain"
)

// SeedCampaigns returns the demo campaigns the memory backend starts with.
func SeedCampaigns() []*domain.Campaign {
	return []*domain.Campaign{
		{
			ID:          "1",
			Title:       "Community Water Well - Nairobi",
			Description: "Building a sustainable water source for 500+ families",
			FullDescription: "This campaign aims to build a sustainable water well in the Nairobi community. " +
				"The project will provide clean drinking water to over 500 families who currently walk 5+ kilometers daily to fetch water.\n\n" +
				"The well will be equipped with solar-powered pumps and a water storage tank. " +
				"Local community members are trained to maintain the system for long-term sustainability.",
			Goal:         decimal.NewFromInt(50000),
			Raised:       decimal.NewFromInt(38500),
			Contributors: 234,
			Image:        "/water-well-community-project.jpg",
			Category:     "Infrastructure",
			Status:       domain.CampaignStatusActive,
			Progress:     77,
			Location:     "Nairobi, Kenya",
			CreatedBy:    "Community Leaders Association",
			CreatedDate:  time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
			Milestones: []domain.Milestone{
				{ID: "1", Title: "Land Preparation & Permits", Description: "Secure land and obtain necessary permits", Amount: decimal.NewFromInt(5000), Status: domain.MilestoneStatusCompleted},
				{ID: "2", Title: "Well Drilling", Description: "Professional drilling and testing", Amount: decimal.NewFromInt(20000), Status: domain.MilestoneStatusCompleted},
				{ID: "3", Title: "Solar System Installation", Description: "Install solar panels and pumping system", Amount: decimal.NewFromInt(15000), Status: domain.MilestoneStatusPending},
				{ID: "4", Title: "Storage Tank & Training", Description: "Build storage tank and train maintenance team", Amount: decimal.NewFromInt(10000), Status: domain.MilestoneStatusPending},
			},
		},
		{
			ID:           "2",
			Title:        "School Renovation Project",
			Description:  "Renovating classrooms and building a library",
			Goal:         decimal.NewFromInt(75000),
			Raised:       decimal.NewFromInt(75000),
			Contributors: 412,
			Image:        "/school-building-renovation.jpg",
			Category:     "Education",
			Status:       domain.CampaignStatusCompleted,
			Progress:     100,
			Location:     "Kisumu, Kenya",
			CreatedBy:    "Education Foundation",
			CreatedDate:  time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:           "3",
			Title:        "Healthcare Clinic Setup",
			Description:  "Establishing a medical clinic in rural area",
			Goal:         decimal.NewFromInt(100000),
			Raised:       decimal.NewFromInt(45200),
			Contributors: 156,
			Image:        "/medical-clinic-healthcare.jpg",
			Category:     "Healthcare",
			Status:       domain.CampaignStatusActive,
			Progress:     45,
			Location:     "Mombasa, Kenya",
			CreatedBy:    "Health Initiative",
			CreatedDate:  time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
		},
	}
}
