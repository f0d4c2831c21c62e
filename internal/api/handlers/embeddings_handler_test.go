package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
)

type mockEmbeddingService struct {
	generateFunc func(ctx context.Context, personID uuid.UUID, additionalContext string) (*models.EmbeddingMetadata, error)
	missingFunc  func(ctx context.Context, query *models.BatchEmbeddingQuery) (*models.BatchEmbeddingResponse, error)
}

func (m *mockEmbeddingService) GenerateForPerson(ctx context.Context, personID uuid.UUID, additionalContext string) (*models.EmbeddingMetadata, error) {
	return m.generateFunc(ctx, personID, additionalContext)
}

func (m *mockEmbeddingService) GenerateMissing(ctx context.Context, query *models.BatchEmbeddingQuery) (*models.BatchEmbeddingResponse, error) {
	return m.missingFunc(ctx, query)
}

func TestEmbeddingsHandler_Generate(t *testing.T) {
	personID := uuid.New()

	h := NewEmbeddingsHandler(&mockEmbeddingService{
		generateFunc: func(_ context.Context, id uuid.UUID, extra string) (*models.EmbeddingMetadata, error) {
			if id != personID {
				return nil, huberrors.NewNotFoundError("person", "person not found")
			}

			assert.Equal(t, "met at demo day", extra)

			return &models.EmbeddingMetadata{Version: 1, Model: "text-embedding-3-small", TextLength: 42}, nil
		},
	})

	rec := httptest.NewRecorder()
	body := `{"personId":"` + personID.String() + `","additionalContext":"met at demo day"}`
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/v1/embeddings", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.GenerateEmbeddingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, 42, resp.Metadata.TextLength)

	rec = httptest.NewRecorder()
	body = `{"personId":"` + uuid.NewString() + `"}`
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/v1/embeddings", strings.NewReader(body)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmbeddingsHandler_Batch(t *testing.T) {
	h := NewEmbeddingsHandler(&mockEmbeddingService{
		missingFunc: func(_ context.Context, q *models.BatchEmbeddingQuery) (*models.BatchEmbeddingResponse, error) {
			assert.Equal(t, 25, q.Limit)

			return &models.BatchEmbeddingResponse{Processed: 0, Results: []models.EmbeddingResult{}}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Batch(rec, httptest.NewRequest(http.MethodGet, "/v1/embeddings?limit=25", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"processed":0,"results":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Batch(rec, httptest.NewRequest(http.MethodGet, "/v1/embeddings?limit=9000", http.NoBody))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
