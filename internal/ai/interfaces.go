package ai

import (
	"context"

	"google.golang.org/genai"

	"hrintel/internal/types"
)

// Provider generates assessment insights with a hosted model.
type Provider interface {
	GenerateInsight(ctx context.Context, req types.InsightRequest) (*types.InsightResponse, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// modelsAPI is the subset of the genai Models service the Gemini provider
// calls. Tests replace it with a fake.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
