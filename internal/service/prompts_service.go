package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/internal/observability"
	"github.com/networkbrain/brain/pkg/cache"
)

const cacheNameSystemPrompt = "system_prompt"

// maxPromptKeyLen matches the system_prompts.key column.
const maxPromptKeyLen = 255

// SystemPromptsRepository is the system prompt storage.
type SystemPromptsRepository interface {
	GetByKey(ctx context.Context, key string) (*models.SystemPrompt, error)
	List(ctx context.Context) ([]models.SystemPrompt, error)
	Upsert(ctx context.Context, key, name, prompt string) (*models.SystemPrompt, error)
}

// PromptsService serves system prompts through a loader cache. Writes invalidate the key.
type PromptsService struct {
	repo    SystemPromptsRepository
	cache   *cache.LoaderCache[string, *models.SystemPrompt]
	metrics observability.CacheMetrics
}

// NewPromptsService wraps repo with promptCache. metrics may be nil.
func NewPromptsService(
	repo SystemPromptsRepository,
	promptCache *cache.LoaderCache[string, *models.SystemPrompt],
	metrics observability.CacheMetrics,
) *PromptsService {
	return &PromptsService{repo: repo, cache: promptCache, metrics: metrics}
}

// GetPrompt returns the prompt stored under key. A missing row is a NotFoundError.
func (s *PromptsService) GetPrompt(ctx context.Context, key string) (*models.SystemPrompt, error) {
	if err := validatePromptKey(key); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		p, hit, err := s.cache.GetWithStats(ctx, key, s.repo.GetByKey)
		if err != nil {
			return nil, fmt.Errorf("get system prompt: %w", err)
		}

		s.metrics.RecordLookup(ctx, cacheNameSystemPrompt, hit)

		return p, nil
	}

	p, err := s.cache.Get(ctx, key, s.repo.GetByKey)
	if err != nil {
		return nil, fmt.Errorf("get system prompt: %w", err)
	}

	return p, nil
}

// ListPrompts returns every stored prompt, uncached.
func (s *PromptsService) ListPrompts(ctx context.Context) ([]models.SystemPrompt, error) {
	prompts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list system prompts: %w", err)
	}

	return prompts, nil
}

// UpsertPrompt creates or replaces the prompt under key and drops the cached copy.
func (s *PromptsService) UpsertPrompt(ctx context.Context, key string, req *models.UpsertSystemPromptRequest) (*models.SystemPrompt, error) {
	if err := validatePromptKey(key); err != nil {
		return nil, err
	}

	p, err := s.repo.Upsert(ctx, key, strings.TrimSpace(req.Name), req.Prompt)
	if err != nil {
		return nil, fmt.Errorf("upsert system prompt: %w", err)
	}

	s.cache.Invalidate(key)

	if s.metrics != nil {
		s.metrics.RecordInvalidation(ctx, cacheNameSystemPrompt)
	}

	return p, nil
}

func validatePromptKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return huberrors.NewValidationError("key", "system prompt key is required")
	}

	if len(key) > maxPromptKeyLen {
		return huberrors.NewValidationError("key", fmt.Sprintf("system prompt key exceeds %d characters", maxPromptKeyLen))
	}

	return nil
}
