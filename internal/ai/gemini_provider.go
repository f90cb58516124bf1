package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"strings"
	"text/template"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"hrintel/internal/config"
	apperrors "hrintel/internal/errors"
	"hrintel/internal/types"
)

const (
	maxFocusAreas     = 5
	modelCheckTimeout = 10 * time.Second
	maxBackoff        = 30 * time.Second
)

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	models       modelsAPI
	config       *config.OperationAIConfig
	breaker      *Breaker[*genai.GenerateContentResponse]
	modelBreaker *Breaker[*genai.Model]
	systemPrompt string
	userPrompt   *template.Template
	baseDelay    time.Duration
	logger       *apperrors.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider from a resolved operation config.
func NewGeminiProvider(cfg *config.OperationAIConfig, logger *apperrors.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}
	return newGeminiProvider(client.Models, cfg, logger)
}

func newGeminiProvider(models modelsAPI, cfg *config.OperationAIConfig, logger *apperrors.Logger) (*GeminiProvider, error) {
	userPrompt, err := parseUserPrompt(cfg.CustomPrompts.UserPrompt)
	if err != nil {
		return nil, apperrors.NewConfigError(apperrors.ErrCodeInvalidConfig, "Invalid custom insight prompt", err)
	}

	return &GeminiProvider{
		models:       models,
		config:       cfg,
		breaker:      NewBreaker[*genai.GenerateContentResponse]("AI-insight", cfg.CircuitBreaker, nil, logger),
		modelBreaker: NewBreaker[*genai.Model]("AI-Model-insight", cfg.CircuitBreaker, RatioTrip(5, 0.8), logger),
		systemPrompt: resolvePrompt(cfg.CustomPrompts.SystemPrompt, DefaultSystemPrompt),
		userPrompt:   userPrompt,
		baseDelay:    time.Second,
		logger:       logger,
	}, nil
}

// insightOutput is the JSON shape requested from the model.
type insightOutput struct {
	Insight    string   `json:"insight"`
	FocusAreas []string `json:"focusAreas"`
}

// GenerateInsight asks the model for a short interview insight.
func (g *GeminiProvider) GenerateInsight(ctx context.Context, req types.InsightRequest) (*types.InsightResponse, error) {
	tracer := otel.Tracer("hrintel.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.generate_insight")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
		attribute.Int("input.job_length", len(req.JobDescription)),
		attribute.Int("input.skills", len(req.Skills)),
	)

	userPrompt, err := renderUserPrompt(g.userPrompt, req)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed, "Failed to build insight prompt", err)
	}

	genaiConfig := g.buildInsightSchema()
	if *g.config.UseSystemPrompts && g.systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(g.systemPrompt, genai.RoleUser)
	}

	result, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, "generate_insight", func() (*genai.GenerateContentResponse, error) {
			return g.models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed, "Failed to generate insight", err)
	}

	var out insightOutput
	if err := json.Unmarshal([]byte(result.Text()), &out); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, apperrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Failed to parse AI insight response", err)
	}

	resp := &types.InsightResponse{
		Insight:    strings.TrimSpace(out.Insight),
		FocusAreas: cleanFocusAreas(out.FocusAreas),
	}
	if resp.Insight == "" {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, apperrors.NewAIError("AI_EMPTY_RESPONSE", "AI returned an empty insight", nil)
	}

	if usage := result.UsageMetadata; usage != nil {
		resp.InputTokens = int64(usage.PromptTokenCount)
		resp.OutputTokens = int64(usage.CandidatesTokenCount)
		resp.TotalTokens = int64(usage.TotalTokenCount)
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", resp.InputTokens),
			attribute.Int64("ai.tokens.output", resp.OutputTokens),
			attribute.Int64("ai.tokens.total", resp.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true), attribute.Int("output.focus_areas", len(resp.FocusAreas)))
	return resp, nil
}

func cleanFocusAreas(areas []string) []string {
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
		if len(out) == maxFocusAreas {
			break
		}
	}
	return out
}

// buildInsightSchema creates the structured output config for insight requests
func (g *GeminiProvider) buildInsightSchema() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"insight": {Type: genai.TypeString},
				"focusAreas": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"insight", "focusAreas"},
		},
	}

	if *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}
	return cfg
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error
	maxRetries := *g.config.MaxRetries

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(g.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts", "operation", operation)
	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, maxRetries, lastErr)
}

// backoff doubles the base delay per attempt and adds up to 10% jitter.
func (g *GeminiProvider) backoff(attempt int) time.Duration {
	delay := g.baseDelay << (attempt - 1)
	if jitterMax := int64(delay) / 10; jitterMax > 0 {
		if j, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			delay += time.Duration(j.Int64())
		}
	}
	return min(delay, maxBackoff)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{Name: g.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"error", err.Error())
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version
	return info
}

// CircuitBreakerStats returns statistics for both breakers
func (g *GeminiProvider) CircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.breaker.Stats(),
		"model_operations": g.modelBreaker.Stats(),
		"overall_healthy":  g.breaker.Healthy() && g.modelBreaker.Healthy(),
	}
}

// Close implements Provider. The genai client holds no connections in
// single-shot usage.
func (g *GeminiProvider) Close() error {
	return nil
}
