package models

import "github.com/google/uuid"

// GenerateEmbeddingRequest is the body of POST /v1/embeddings.
type GenerateEmbeddingRequest struct {
	PersonID          uuid.UUID `json:"personId" validate:"required"`
	AdditionalContext string    `json:"additionalContext,omitempty" validate:"omitempty,max=20000,no_null_bytes"`
}

// BatchEmbeddingQuery is the query of GET /v1/embeddings.
type BatchEmbeddingQuery struct {
	Limit  int `form:"limit" validate:"omitempty,min=1,max=500"`
	Offset int `form:"offset" validate:"omitempty,min=0"`
}

// DefaultBatchEmbeddingLimit applies when limit is omitted.
const DefaultBatchEmbeddingLimit = 10

// EmbeddingResult is the per-person outcome of a batch run.
type EmbeddingResult struct {
	PersonID uuid.UUID `json:"personId"`
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
}

// BatchEmbeddingResponse is returned by GET /v1/embeddings.
type BatchEmbeddingResponse struct {
	Processed int               `json:"processed"`
	Results   []EmbeddingResult `json:"results"`
}

// GenerateEmbeddingResponse is returned by POST /v1/embeddings.
type GenerateEmbeddingResponse struct {
	Success  bool               `json:"success"`
	Metadata *EmbeddingMetadata `json:"metadata,omitempty"`
}
