package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"hrintel/internal/config"
)

// Metrics holds all custom hrintel instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	AssessmentsTotal   metric.Int64Counter
	SkillsExtracted    metric.Int64Histogram
	QuestionsGenerated metric.Int64Histogram
	CandidatesScored   metric.Int64Counter

	CatalogReloads metric.Int64Counter
	RateLimitHits  metric.Int64Counter

	toggles config.CustomMetricsConfig
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter, toggles config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{toggles: toggles}
	var err error

	if m.AIProcessingTime, err = meter.Float64Histogram("hrintel_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}
	if m.AIRequestCount, err = meter.Int64Counter("hrintel_ai_requests_total",
		metric.WithDescription("Total number of AI requests")); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}
	if m.AIErrorCount, err = meter.Int64Counter("hrintel_ai_errors_total",
		metric.WithDescription("Total number of AI request errors")); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}
	if m.AITokenUsage, err = meter.Int64Histogram("hrintel_ai_token_usage",
		metric.WithDescription("Token usage for AI requests by token type"),
		metric.WithUnit("tokens")); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	if m.AssessmentsTotal, err = meter.Int64Counter("hrintel_assessments_total",
		metric.WithDescription("Total number of assessments produced")); err != nil {
		return nil, fmt.Errorf("failed to create assessments metric: %w", err)
	}
	if m.SkillsExtracted, err = meter.Int64Histogram("hrintel_skills_extracted",
		metric.WithDescription("Skills detected per job description")); err != nil {
		return nil, fmt.Errorf("failed to create skills metric: %w", err)
	}
	if m.QuestionsGenerated, err = meter.Int64Histogram("hrintel_questions_generated",
		metric.WithDescription("Questions generated per assessment")); err != nil {
		return nil, fmt.Errorf("failed to create questions metric: %w", err)
	}
	if m.CandidatesScored, err = meter.Int64Counter("hrintel_candidates_scored_total",
		metric.WithDescription("Total number of candidate results recorded")); err != nil {
		return nil, fmt.Errorf("failed to create candidates metric: %w", err)
	}

	if m.CatalogReloads, err = meter.Int64Counter("hrintel_catalog_reloads_total",
		metric.WithDescription("Total number of catalog reload attempts")); err != nil {
		return nil, fmt.Errorf("failed to create catalog reload metric: %w", err)
	}
	if m.RateLimitHits, err = meter.Int64Counter("hrintel_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits")); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return m, nil
}

// TrackAIOperation instruments an AI operation with tracing, metrics, and token usage
func (m *Metrics) TrackAIOperation(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult) error {
	tracer := otel.Tracer("hrintel.ai")
	ctx, span := tracer.Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}

	if m == nil || !m.toggles.AIOperations.Enabled {
		return err
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	if m.toggles.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if result != nil && result.TokenUsage != nil {
		usage := result.TokenUsage
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
		if m.toggles.AIOperations.TrackTokenUsage {
			for _, tt := range []struct {
				name  string
				value int64
			}{{"input", usage.InputTokens}, {"output", usage.OutputTokens}, {"total", usage.TotalTokens}} {
				m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(
					attribute.String("operation", operation),
					attribute.String("token_type", tt.name)))
			}
		}
	}
	span.SetAttributes(attrs...)

	return err
}

// RecordAssessment records one finished assessment.
func (m *Metrics) RecordAssessment(ctx context.Context, level, role string, skills, questions int, aiInsight bool) {
	if m == nil || !m.toggles.BusinessMetrics.Enabled {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("level", level),
		attribute.String("role", role),
		attribute.Bool("ai_insight", aiInsight),
	)
	m.AssessmentsTotal.Add(ctx, 1, attrs)
	m.SkillsExtracted.Record(ctx, int64(skills), attrs)
	m.QuestionsGenerated.Record(ctx, int64(questions), attrs)
}

// RecordCandidateScored records one saved candidate result.
func (m *Metrics) RecordCandidateScored(ctx context.Context) {
	if m == nil || !m.toggles.BusinessMetrics.Enabled {
		return
	}
	m.CandidatesScored.Add(ctx, 1)
}

// RecordCatalogReload records a catalog reload attempt.
func (m *Metrics) RecordCatalogReload(ctx context.Context, success bool) {
	if m == nil || !m.toggles.Infrastructure.Enabled {
		return
	}
	m.CatalogReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// RecordRateLimitHit records a rejected request. keyType is "ip" or "api_key".
func (m *Metrics) RecordRateLimitHit(ctx context.Context, keyType string) {
	if m == nil || !m.toggles.Infrastructure.Enabled || !m.toggles.Infrastructure.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limit_type", keyType)))
}
