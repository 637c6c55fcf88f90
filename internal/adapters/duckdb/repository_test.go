package duckdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcrm/kernel/internal/core/domain"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository("")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_Deals(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	deal := domain.Deal{
		ID:        domain.NewRecordID(),
		UserID:    "user-1",
		Title:     "Platform Rollout",
		Company:   "Acme",
		Contact:   "Ada Lovelace",
		Value:     12000,
		Stage:     domain.StageQualified,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.CreateDeal(ctx, deal))

	fetched, err := repo.GetDeal(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, deal.Title, fetched.Title)
	assert.Equal(t, deal.Value, fetched.Value)

	deal.Stage = domain.StageProposal
	deal.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, repo.UpdateDeal(ctx, deal))

	byStage, err := repo.ListDealsByStage(ctx, "user-1", domain.StageProposal)
	require.NoError(t, err)
	require.Len(t, byStage, 1)
	assert.Equal(t, deal.ID, byStage[0].ID)

	empty, err := repo.ListDealsByStage(ctx, "user-1", domain.StageClosedWon)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.DeleteDeal(ctx, deal.ID))
	_, err = repo.GetDeal(ctx, deal.ID)
	assert.Error(t, err)

	err = repo.DeleteDeal(ctx, deal.ID)
	assert.Error(t, err, "deleting a missing deal reports not found")
}

func TestRepository_BusinessAnalyses(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	analysis := domain.BusinessAnalysis{
		ID:           domain.NewRecordID(),
		UserID:       "user-1",
		BusinessName: "Acme",
		Industry:     "Technology",
		AnalysisData: map[string]any{"score": float64(82), "summary": "strong fit"},
		Status:       "complete",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, repo.CreateBusinessAnalysis(ctx, analysis))

	fetched, err := repo.GetBusinessAnalysis(ctx, analysis.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", fetched.BusinessName)
	assert.Equal(t, float64(82), fetched.AnalysisData["score"])

	analysis.Status = "failed"
	require.NoError(t, repo.UpdateBusinessAnalysis(ctx, analysis))

	list, err := repo.ListBusinessAnalyses(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "failed", list[0].Status)

	require.NoError(t, repo.DeleteBusinessAnalysis(ctx, analysis.ID))
}

func TestRepository_ContentItemsScopedByUser(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, userID := range []string{"user-1", "user-1", "user-2"} {
		item := domain.ContentItem{
			ID:        domain.NewRecordID(),
			UserID:    userID,
			Title:     "Item",
			Content:   "body",
			Type:      "email",
			Status:    "draft",
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.CreateContentItem(ctx, item))
	}

	mine, err := repo.ListContentItems(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := repo.ListContentItems(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestRepository_VoiceProfileRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	profile := domain.VoiceProfile{
		ID:            domain.NewRecordID(),
		UserID:        "user-1",
		Name:          "Warm narrator",
		VoiceSettings: map[string]any{"stability": 0.4, "voice_id": "abc"},
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, repo.CreateVoiceProfile(ctx, profile))

	fetched, err := repo.GetVoiceProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc", fetched.VoiceSettings["voice_id"])

	profile.Name = "Crisp narrator"
	require.NoError(t, repo.UpdateVoiceProfile(ctx, profile))
	require.NoError(t, repo.DeleteVoiceProfile(ctx, profile.ID))
}

func TestRepository_Settings(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	_, err := repo.GetSetting(ctx, "app_config")
	assert.Error(t, err, "missing settings read as an error so the store falls back to defaults")

	require.NoError(t, repo.SaveSetting(ctx, "app_config", `{"model":"gpt-4o"}`))
	value, err := repo.GetSetting(ctx, "app_config")
	require.NoError(t, err)
	assert.Equal(t, `{"model":"gpt-4o"}`, value)

	// Upsert overwrites
	require.NoError(t, repo.SaveSetting(ctx, "app_config", `{"model":"gpt-4.1"}`))
	value, err = repo.GetSetting(ctx, "app_config")
	require.NoError(t, err)
	assert.Equal(t, `{"model":"gpt-4.1"}`, value)
}
