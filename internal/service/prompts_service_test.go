package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/pkg/cache"
)

func newPromptCache() *cache.LoaderCache[string, *models.SystemPrompt] {
	return cache.NewLoaderCache[string, *models.SystemPrompt](16, time.Minute, func(k string) string { return k })
}

func TestPromptsService_GetPrompt_Caches(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSystemPromptsRepository)
	svc := NewPromptsService(repo, newPromptCache(), nil)

	stored := &models.SystemPrompt{Key: models.PromptKeyProfile, Name: "Profile", Prompt: "v1"}
	repo.On("GetByKey", ctx, models.PromptKeyProfile).Return(stored, nil).Once()

	for range 3 {
		p, err := svc.GetPrompt(ctx, models.PromptKeyProfile)
		require.NoError(t, err)
		assert.Equal(t, "v1", p.Prompt)
	}

	repo.AssertNumberOfCalls(t, "GetByKey", 1)
}

func TestPromptsService_UpsertInvalidates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSystemPromptsRepository)
	svc := NewPromptsService(repo, newPromptCache(), nil)

	v1 := &models.SystemPrompt{Key: "enrich_profile", Prompt: "v1"}
	v2 := &models.SystemPrompt{Key: "enrich_profile", Name: "Profile", Prompt: "v2"}

	repo.On("GetByKey", ctx, "enrich_profile").Return(v1, nil).Once()
	repo.On("Upsert", ctx, "enrich_profile", "Profile", "v2").Return(v2, nil).Once()
	repo.On("GetByKey", ctx, "enrich_profile").Return(v2, nil).Once()

	p, err := svc.GetPrompt(ctx, "enrich_profile")
	require.NoError(t, err)
	assert.Equal(t, "v1", p.Prompt)

	_, err = svc.UpsertPrompt(ctx, "enrich_profile", &models.UpsertSystemPromptRequest{Name: "  Profile ", Prompt: "v2"})
	require.NoError(t, err)

	p, err = svc.GetPrompt(ctx, "enrich_profile")
	require.NoError(t, err)
	assert.Equal(t, "v2", p.Prompt)
	repo.AssertExpectations(t)
}

func TestPromptsService_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing prompt is not cached", func(t *testing.T) {
		repo := new(MockSystemPromptsRepository)
		svc := NewPromptsService(repo, newPromptCache(), nil)

		repo.On("GetByKey", ctx, "enrich_timeline").
			Return(nil, huberrors.NewNotFoundError("system_prompt", "System prompt not found: enrich_timeline"))

		for range 2 {
			_, err := svc.GetPrompt(ctx, "enrich_timeline")
			assert.ErrorIs(t, err, huberrors.ErrNotFound)
		}

		repo.AssertNumberOfCalls(t, "GetByKey", 2)
	})

	t.Run("invalid keys", func(t *testing.T) {
		svc := NewPromptsService(new(MockSystemPromptsRepository), newPromptCache(), nil)

		for _, key := range []string{"", "   ", strings.Repeat("k", 256)} {
			_, err := svc.GetPrompt(ctx, key)
			assert.ErrorIs(t, err, huberrors.ErrValidation)
		}
	})
}
