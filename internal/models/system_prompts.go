package models

import "time"

// SystemPrompt is an admin-managed LLM instruction template, looked up by Key.
type SystemPrompt struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Prompt    string    `json:"prompt"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertSystemPromptRequest is the body of PUT /v1/system-prompts/{key}.
type UpsertSystemPromptRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=255,no_null_bytes"`
	Prompt string `json:"prompt" validate:"required,min=1,no_null_bytes"`
}
