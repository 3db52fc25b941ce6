package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dchanga/internal/domain"
	"dchanga/internal/repository"
)

func TestCampaignRepository_Seeded(t *testing.T) {
	repo := NewCampaignRepository(SeedCampaigns()...)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "1", all[0].ID)
	assert.Len(t, all[0].Milestones, 4)
}

func TestCampaignRepository_CreateAssignsID(t *testing.T) {
	ctx := context.Background()
	repo := NewCampaignRepository(SeedCampaigns()...)

	c := &domain.Campaign{Title: "Borehole", Goal: decimal.NewFromInt(1000)}
	require.NoError(t, repo.Create(ctx, c))
	assert.Equal(t, "4", c.ID)

	got, err := repo.GetByID(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, "Borehole", got.Title)
}

func TestCampaignRepository_RecordContribution(t *testing.T) {
	ctx := context.Background()
	repo := NewCampaignRepository(SeedCampaigns()...)

	updated, err := repo.RecordContribution(ctx, "3", decimal.NewFromInt(4800))
	require.NoError(t, err)

	assert.True(t, updated.Raised.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, 157, updated.Contributors)
	assert.Equal(t, 50, updated.Progress)

	_, err = repo.RecordContribution(ctx, "99", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCampaignRepository_MilestonesNotShared(t *testing.T) {
	ctx := context.Background()
	repo := NewCampaignRepository(SeedCampaigns()...)

	got, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	got.Milestones[0].Title = "changed"

	again, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Land Preparation & Permits", again.Milestones[0].Title)
}
