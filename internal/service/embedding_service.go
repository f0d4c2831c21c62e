package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/internal/observability"
)

// Embedding text field names, in the order they are joined.
const (
	embedFieldName               = "name"
	embedFieldTitle              = "title"
	embedFieldCompany            = "company"
	embedFieldSummary            = "summary"
	embedFieldDetailedSummary    = "detailed_summary"
	embedFieldIntrosSought       = "intros_sought"
	embedFieldReasonsToIntroduce = "reasons_to_introduce"
	embedFieldAdditionalContext  = "additional_context"
)

const (
	defaultBatchConcurrency = 5
	maxBatchEmbeddingLimit  = 500
)

// EmbeddingPeopleRepository is the person storage used by the embedding generator.
type EmbeddingPeopleRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Person, error)
	SetEmbedding(ctx context.Context, id uuid.UUID, embedding []float32, meta models.EmbeddingMetadata) error
	ListMissingEmbeddings(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
}

// EmbeddingService builds embedding text for people, calls the embedding model and stores the result.
type EmbeddingService struct {
	repo        EmbeddingPeopleRepository
	client      EmbeddingClient
	concurrency int
	limiter     *rate.Limiter
	metrics     observability.EmbeddingMetrics
	now         func() time.Time
}

// EmbeddingServiceOption configures the EmbeddingService.
type EmbeddingServiceOption func(*EmbeddingService)

// WithBatchConcurrency bounds how many people a batch run embeds at once.
func WithBatchConcurrency(n int) EmbeddingServiceOption {
	return func(s *EmbeddingService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithRateLimit paces provider calls in batch runs. rps <= 0 disables pacing.
func WithRateLimit(rps float64) EmbeddingServiceOption {
	return func(s *EmbeddingService) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
		} else {
			s.limiter = nil
		}
	}
}

// WithEmbeddingMetrics sets the metrics sink. nil disables metrics.
func WithEmbeddingMetrics(m observability.EmbeddingMetrics) EmbeddingServiceOption {
	return func(s *EmbeddingService) {
		s.metrics = m
	}
}

// NewEmbeddingService creates the embedding generator. client may be nil when no embedding
// provider is configured; calls then fail with a ConfigurationError.
func NewEmbeddingService(repo EmbeddingPeopleRepository, client EmbeddingClient, opts ...EmbeddingServiceOption) *EmbeddingService {
	s := &EmbeddingService{
		repo:        repo,
		client:      client,
		concurrency: defaultBatchConcurrency,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// BuildEmbeddingText newline-joins the non-empty profile fields of p followed by additionalContext.
// Values are used as stored; only empty fields are skipped.
// It returns the text and the names of the fields that contributed, in join order.
func BuildEmbeddingText(p *models.Person, additionalContext string) (string, []string) {
	candidates := []struct {
		name  string
		value string
	}{
		{embedFieldName, p.Name},
		{embedFieldTitle, models.StringValue(p.Title)},
		{embedFieldCompany, models.StringValue(p.Company)},
		{embedFieldSummary, models.StringValue(p.Summary)},
		{embedFieldDetailedSummary, models.StringValue(p.DetailedSummary)},
		{embedFieldIntrosSought, models.StringValue(p.IntrosSought)},
		{embedFieldReasonsToIntroduce, models.StringValue(p.ReasonsToIntroduce)},
		{embedFieldAdditionalContext, additionalContext},
	}

	parts := make([]string, 0, len(candidates))
	fields := make([]string, 0, len(candidates))

	for _, c := range candidates {
		if c.value == "" {
			continue
		}

		parts = append(parts, c.value)
		fields = append(fields, c.name)
	}

	return strings.Join(parts, "\n"), fields
}

// GenerateForPerson embeds one person's profile text and stores the vector with its metadata.
func (s *EmbeddingService) GenerateForPerson(
	ctx context.Context, personID uuid.UUID, additionalContext string,
) (*models.EmbeddingMetadata, error) {
	if s.client == nil {
		return nil, huberrors.NewConfigurationError("EMBEDDING_PROVIDER_API_KEY", "embedding provider is not configured")
	}

	start := time.Now()

	person, err := s.repo.Get(ctx, personID)
	if err != nil {
		s.recordFailure(ctx, start, "get_person_failed")

		return nil, err
	}

	text, fields := BuildEmbeddingText(person, additionalContext)
	if text == "" {
		s.recordFailure(ctx, start, "empty_embedding_text")

		return nil, huberrors.NewValidationError("personId", "person has no profile text to embed")
	}

	embedding, err := s.client.CreateEmbedding(ctx, text)
	if err != nil {
		s.recordFailure(ctx, start, "embedding_failed")

		return nil, huberrors.NewUpstreamError("embeddings", err)
	}

	meta := models.EmbeddingMetadata{
		Version:     models.EmbeddingMetadataVersion,
		Model:       s.client.Model(),
		TextLength:  len(text),
		Fields:      fields,
		GeneratedAt: s.now().UTC(),
	}

	if err := s.repo.SetEmbedding(ctx, personID, embedding, meta); err != nil {
		s.recordFailure(ctx, start, "store_failed")

		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordEmbedding(ctx, "success", time.Since(start))
	}

	slog.DebugContext(ctx, "embedding: stored", "person_id", personID, "fields", fields, "text_length", len(text))

	return &meta, nil
}

func (s *EmbeddingService) recordFailure(ctx context.Context, start time.Time, reason string) {
	if s.metrics == nil {
		return
	}

	s.metrics.RecordWorkerError(ctx, reason)
	s.metrics.RecordEmbedding(ctx, "failed", time.Since(start))
}

// GenerateMissing embeds one page of people that have no embedding yet. People are processed
// concurrently; a failure is reported in that person's result and never cancels the others.
func (s *EmbeddingService) GenerateMissing(ctx context.Context, query *models.BatchEmbeddingQuery) (*models.BatchEmbeddingResponse, error) {
	if s.client == nil {
		return nil, huberrors.NewConfigurationError("EMBEDDING_PROVIDER_API_KEY", "embedding provider is not configured")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = models.DefaultBatchEmbeddingLimit
	}

	if limit > maxBatchEmbeddingLimit {
		limit = maxBatchEmbeddingLimit
	}

	ids, err := s.repo.ListMissingEmbeddings(ctx, limit, max(query.Offset, 0))
	if err != nil {
		return nil, err
	}

	results := make([]models.EmbeddingResult, len(ids))

	// Plain errgroup (no WithContext): workers always return nil so siblings keep running.
	var g errgroup.Group

	g.SetLimit(s.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			results[i] = s.generateOne(ctx, id)

			return nil
		})
	}

	_ = g.Wait()

	if s.metrics != nil {
		succeeded := 0

		for _, r := range results {
			if r.Success {
				succeeded++
			}
		}

		s.metrics.RecordBatch(ctx, succeeded, len(results)-succeeded)
	}

	return &models.BatchEmbeddingResponse{Processed: len(results), Results: results}, nil
}

func (s *EmbeddingService) generateOne(ctx context.Context, id uuid.UUID) models.EmbeddingResult {
	result := models.EmbeddingResult{PersonID: id}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			result.Error = err.Error()

			return result
		}
	}

	if _, err := s.GenerateForPerson(ctx, id, ""); err != nil {
		slog.WarnContext(ctx, "embedding: batch item failed", "person_id", id, "error", err)

		result.Error = batchErrorMessage(err)

		return result
	}

	result.Success = true

	return result
}

// batchErrorMessage unwraps upstream errors so the per-person result carries the provider's message.
func batchErrorMessage(err error) string {
	var upstream *huberrors.UpstreamError
	if errors.As(err, &upstream) && upstream.Err != nil {
		return upstream.Err.Error()
	}

	return err.Error()
}
