package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"hrintel/internal/config"
	"hrintel/internal/errors"
	"hrintel/internal/observability"
	"hrintel/internal/types"
)

// Service generates AI insights for assessments. It satisfies the
// assessment package's InsightGenerator.
type Service struct {
	provider Provider
	config   *config.OperationAIConfig
	metrics  *observability.Metrics
	logger   *errors.Logger
}

// NewService creates a service for the provider named in cfg. cfg must be
// fully resolved, see config.Config.GetInsightConfig.
func NewService(cfg *config.OperationAIConfig, metrics *observability.Metrics, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	var provider Provider
	var err error
	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to create AI provider", err)
	}

	return NewServiceWithProvider(provider, cfg, metrics, logger), nil
}

// NewServiceWithProvider wraps an existing provider.
func NewServiceWithProvider(provider Provider, cfg *config.OperationAIConfig, metrics *observability.Metrics, logger *errors.Logger) *Service {
	return &Service{provider: provider, config: cfg, metrics: metrics, logger: logger}
}

// GenerateInsight calls the provider within the configured timeout and
// records AI metrics.
func (s *Service) GenerateInsight(ctx context.Context, req types.InsightRequest) (*types.InsightResponse, error) {
	var timeout time.Duration
	if s.config.Timeout != nil {
		timeout = *s.config.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var resp *types.InsightResponse
	err := s.metrics.TrackAIOperation(ctx, "insight", func(ctx context.Context) *observability.AIOperationResult {
		var err error
		resp, err = s.provider.GenerateInsight(ctx, req)
		result := &observability.AIOperationResult{Error: err}
		if resp != nil {
			result.TokenUsage = &observability.TokenUsage{
				InputTokens:  resp.InputTokens,
				OutputTokens: resp.OutputTokens,
				TotalTokens:  resp.TotalTokens,
			}
		}
		return result
	})
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.NewAIError(errors.ErrCodeAITimeout, "AI insight timed out", err).
				WithContext("timeout", timeout.String())
		}
		return nil, err
	}

	s.logger.Debug("AI insight generated",
		"model", s.config.Model,
		"focus_areas", len(resp.FocusAreas),
		"total_tokens", resp.TotalTokens)
	return resp, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.provider.GetModelInfo(ctx)
}

// Stats returns circuit breaker statistics when the provider exposes them.
func (s *Service) Stats() map[string]any {
	if p, ok := s.provider.(interface{ CircuitBreakerStats() map[string]any }); ok {
		return p.CircuitBreakerStats()
	}
	return map[string]any{}
}

// Close releases provider resources.
func (s *Service) Close() error {
	return s.provider.Close()
}
