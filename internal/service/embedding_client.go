package service

import "context"

// EmbeddingClient generates embedding vectors for text.
// Implemented by provider-specific clients (OpenAI, Google Gemini).
type EmbeddingClient interface {
	CreateEmbedding(ctx context.Context, input string) ([]float32, error)
	// Model is recorded in the person's embedding metadata.
	Model() string
}

// ChatClient returns a JSON object produced by an LLM for a system prompt and user content.
type ChatClient interface {
	CompleteJSON(ctx context.Context, systemPrompt, userContent string) (string, error)
}
