package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrintel/internal/config"
	apperrors "hrintel/internal/errors"
	"hrintel/internal/types"
)

type mockProvider struct {
	resp     *types.InsightResponse
	err      error
	deadline bool
	closed   bool
}

func (m *mockProvider) GenerateInsight(ctx context.Context, _ types.InsightRequest) (*types.InsightResponse, error) {
	_, m.deadline = ctx.Deadline()
	return m.resp, m.err
}

func (m *mockProvider) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Name: "mock", Available: true}
}

func (m *mockProvider) Close() error {
	m.closed = true
	return nil
}

func TestServiceGenerateInsight(t *testing.T) {
	provider := &mockProvider{resp: &types.InsightResponse{Insight: "Probe SQL depth.", FocusAreas: []string{"SQL"}}}
	svc := NewServiceWithProvider(provider, testOperationConfig(), nil, apperrors.NewNopLogger())

	resp, err := svc.GenerateInsight(context.Background(), insightRequest)
	require.NoError(t, err)
	assert.Equal(t, "Probe SQL depth.", resp.Insight)
	assert.True(t, provider.deadline)

	assert.True(t, svc.GetModelInfo(context.Background()).Available)
	assert.Empty(t, svc.Stats())
	require.NoError(t, svc.Close())
	assert.True(t, provider.closed)
}

type blockingProvider struct{ mockProvider }

func (b *blockingProvider) GenerateInsight(ctx context.Context, _ types.InsightRequest) (*types.InsightResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestServiceTimeout(t *testing.T) {
	cfg := testOperationConfig()
	cfg.Timeout = timePtr(20 * time.Millisecond)
	svc := NewServiceWithProvider(&blockingProvider{}, cfg, nil, apperrors.NewNopLogger())

	_, err := svc.GenerateInsight(context.Background(), insightRequest)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeAITimeout, appErr.Code)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestServiceWithoutTimeout(t *testing.T) {
	cfg := testOperationConfig()
	cfg.Timeout = timePtr(0)
	provider := &mockProvider{resp: &types.InsightResponse{Insight: "ok"}}
	svc := NewServiceWithProvider(provider, cfg, nil, apperrors.NewNopLogger())

	_, err := svc.GenerateInsight(context.Background(), insightRequest)
	require.NoError(t, err)
	assert.False(t, provider.deadline)
}

func TestServicePropagatesError(t *testing.T) {
	boom := errors.New("quota exceeded")
	svc := NewServiceWithProvider(&mockProvider{err: boom}, testOperationConfig(), nil, apperrors.NewNopLogger())

	resp, err := svc.GenerateInsight(context.Background(), insightRequest)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, boom)
}

func TestServiceStatsFromGemini(t *testing.T) {
	cfg := testOperationConfig()
	cfg.CircuitBreaker = config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      5,
		FailureThreshold: 0.6,
	}
	p := newTestProvider(t, &fakeModels{}, cfg)
	svc := NewServiceWithProvider(p, cfg, nil, apperrors.NewNopLogger())

	stats := svc.Stats()
	assert.Equal(t, true, stats["overall_healthy"])
	assert.Equal(t, "closed", stats["ai_operations"].(map[string]any)["state"])
}

func TestNewServiceUnsupportedProvider(t *testing.T) {
	cfg := testOperationConfig()
	cfg.Provider = "unknown"

	_, err := NewService(cfg, nil, apperrors.NewNopLogger())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfig))
}
