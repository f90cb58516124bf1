package assessment

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrintel/internal/catalog"
	"hrintel/internal/errors"
	"hrintel/internal/types"
)

type mockInsight struct {
	resp *types.InsightResponse
	err  error
	got  types.InsightRequest
}

func (m *mockInsight) GenerateInsight(_ context.Context, req types.InsightRequest) (*types.InsightResponse, error) {
	m.got = req
	return m.resp, m.err
}

type mockRecorder struct {
	mu    sync.Mutex
	saved []*types.AssessmentResult
	err   error
}

func (m *mockRecorder) SaveAssessment(_ context.Context, r *types.AssessmentResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, r)
	return nil
}

func newTestAssessor(t *testing.T) *Assessor {
	t.Helper()
	h, err := catalog.NewHolder(catalog.Default(), "builtin")
	require.NoError(t, err)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return NewAssessor(h,
		WithClock(func() time.Time { return fixed }),
		WithIDGenerator(func() string { return "test-id" }))
}

func intPtr(v int) *int { return &v }

func TestAssessorAssess(t *testing.T) {
	a := newTestAssessor(t)

	result, err := a.Assess(types.AssessInput{
		JobDescription: "We need a Python developer with SQL and Docker experience.",
		CandidateName:  "  Ada  ",
		Level:          types.LevelJunior,
	})
	require.NoError(t, err)

	assert.Equal(t, "test-id", result.ID)
	assert.Equal(t, "Ada", result.CandidateName)
	assert.Equal(t, []string{"Docker", "Python", "SQL"}, result.Skills)
	assert.Equal(t, "Backend Engineer", result.Role)
	assert.Len(t, result.Questions, 12)
	assert.Equal(t, 70, result.Summary.TechnicalWeight)
	assert.Equal(t, types.FocusTechnicalHeavy, result.Summary.Focus)
	assert.Equal(t, catalog.DefaultRubric(), result.Rubric)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), result.CreatedAt)
	assert.Equal(t, catalog.Default().Questions.Behavioral, result.Behavioral)
	assert.Equal(t, catalog.Default().Questions.Tasks, result.Tasks)
}

func TestAssessorRejectsBlankDescription(t *testing.T) {
	a := newTestAssessor(t)

	for _, jd := range []string{"", "   ", "\n\t"} {
		_, err := a.Assess(types.AssessInput{JobDescription: jd})
		require.Error(t, err)
		var appErr *errors.AppError
		require.True(t, stderrors.As(err, &appErr))
		assert.Equal(t, errors.ErrCodeEmptyInput, appErr.Code)
	}
}

func TestAssessorReturnsIndependentLists(t *testing.T) {
	a := newTestAssessor(t)

	result, err := a.Assess(types.AssessInput{JobDescription: "python"})
	require.NoError(t, err)
	result.Behavioral[0] = "changed"
	result.Tasks[0] = "changed"

	again, err := a.Assess(types.AssessInput{JobDescription: "python"})
	require.NoError(t, err)
	assert.Equal(t, "Describe a time you solved a hard technical problem.", again.Behavioral[0])
	assert.Equal(t, "Build a simple CI/CD pipeline for a Python application.", again.Tasks[0])
}

func TestAssessorDefaultsAndValidation(t *testing.T) {
	a := newTestAssessor(t)

	result, err := a.Assess(types.AssessInput{JobDescription: "nothing relevant", TechnicalWeight: intPtr(50)})
	require.NoError(t, err)
	assert.Equal(t, types.LevelMid, result.Level)
	assert.Equal(t, "Software Engineer", result.Role)
	assert.Empty(t, result.Skills)
	assert.Len(t, result.Questions, 10)
	assert.Equal(t, types.FocusBalanced, result.Summary.Focus)
	assert.Equal(t, types.NoCandidateName, result.DisplayName())

	tests := []struct {
		name  string
		input types.AssessInput
	}{
		{"empty description", types.AssessInput{JobDescription: "   "}},
		{"unknown level", types.AssessInput{JobDescription: "python", Level: "Principal"}},
		{"weight too high", types.AssessInput{JobDescription: "python", TechnicalWeight: intPtr(120)}},
		{"negative count", types.AssessInput{JobDescription: "python", MinQuestions: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Assess(tt.input)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), "got %v", err)
		})
	}
}

func TestAssessorAcceptsLowercaseLevel(t *testing.T) {
	a := newTestAssessor(t)
	result, err := a.Assess(types.AssessInput{JobDescription: "python", Level: "senior"})
	require.NoError(t, err)
	assert.Equal(t, types.LevelSenior, result.Level)
}

func TestAssessorExtract(t *testing.T) {
	a := newTestAssessor(t)
	got := a.Extract("Machine learning engineers with DevOps skills")
	assert.Equal(t, []string{"DevOps", "Machine Learning"}, got.Skills)
	assert.Equal(t, "Data Scientist / ML Engineer", got.Role)
}

func TestServiceUsesAIInsight(t *testing.T) {
	insight := &mockInsight{resp: &types.InsightResponse{Insight: "Strong backend focus.", FocusAreas: []string{"APIs"}}}
	svc := NewService(newTestAssessor(t), insight, nil, errors.NewNopLogger())

	result, err := svc.Assess(context.Background(), Request{
		AssessInput: types.AssessInput{JobDescription: "python and sql"},
		UseAI:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Strong backend focus.", result.Summary.Insight)
	assert.Equal(t, types.InsightSourceAI, result.Summary.InsightSource)
	assert.Equal(t, []string{"Python", "SQL"}, insight.got.Skills)
	assert.Equal(t, "Backend Engineer", insight.got.Role)
}

func TestServiceFallsBackWhenAIFails(t *testing.T) {
	insight := &mockInsight{err: stderrors.New("quota exceeded")}
	svc := NewService(newTestAssessor(t), insight, nil, errors.NewNopLogger())

	result, err := svc.Assess(context.Background(), Request{
		AssessInput: types.AssessInput{JobDescription: "python"},
		UseAI:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, types.InsightSourceTemplate, result.Summary.InsightSource)
	assert.Contains(t, result.Summary.Insight, "This JD focuses on Python.")
}

func TestServiceSave(t *testing.T) {
	rec := &mockRecorder{}
	svc := NewService(newTestAssessor(t), nil, rec, errors.NewNopLogger())

	_, err := svc.Assess(context.Background(), Request{
		AssessInput: types.AssessInput{JobDescription: "python"},
		Save:        true,
	})
	require.NoError(t, err)
	assert.Len(t, rec.saved, 1)

	rec.err = errors.NewStorageError(errors.ErrCodeStoreFailed, "disk full", nil)
	_, err = svc.Assess(context.Background(), Request{
		AssessInput: types.AssessInput{JobDescription: "python"},
		Save:        true,
	})
	assert.True(t, errors.IsType(err, errors.ErrorTypeStorage))
}

func TestServiceSaveWithoutStore(t *testing.T) {
	svc := NewService(newTestAssessor(t), nil, nil, errors.NewNopLogger())
	_, err := svc.Assess(context.Background(), Request{
		AssessInput: types.AssessInput{JobDescription: "python"},
		Save:        true,
	})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestAssessBatchKeepsInputOrder(t *testing.T) {
	svc := NewService(newTestAssessor(t), nil, nil, errors.NewNopLogger())

	inputs := []BatchInput{
		{Source: "a.txt", Request: Request{AssessInput: types.AssessInput{JobDescription: "react"}}},
		{Source: "b.txt", Request: Request{AssessInput: types.AssessInput{JobDescription: ""}}},
		{Source: "c.txt", Request: Request{AssessInput: types.AssessInput{JobDescription: "devops"}}},
	}
	out, err := svc.AssessBatch(context.Background(), inputs, 2)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "a.txt", out[0].Source)
	assert.Equal(t, "Frontend Engineer", out[0].Result.Role)
	assert.Equal(t, "b.txt", out[1].Source)
	assert.Nil(t, out[1].Result)
	assert.NotEmpty(t, out[1].Error)
	assert.Equal(t, "Cloud / DevOps Engineer", out[2].Result.Role)
}

func TestAssessBatchCancelled(t *testing.T) {
	svc := NewService(newTestAssessor(t), nil, nil, errors.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.AssessBatch(ctx, []BatchInput{{Source: "x", Request: Request{AssessInput: types.AssessInput{JobDescription: "go"}}}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
