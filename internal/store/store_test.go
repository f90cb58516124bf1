package store

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrintel/internal/errors"
	"hrintel/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleAssessment(id string, created time.Time) *types.AssessmentResult {
	return &types.AssessmentResult{
		ID:            id,
		CandidateName: "Ada",
		Level:         types.LevelSenior,
		Skills:        []string{"Python", "SQL"},
		Role:          "Backend Engineer",
		Questions:     []string{"Explain fundamentals of Python."},
		Summary: types.Summary{
			Focus:           types.FocusTechnicalHeavy,
			TechnicalWeight: 70,
			SoftWeight:      30,
			Insight:         "insight",
		},
		CreatedAt: created,
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())
}

func TestAssessmentsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, s.SaveAssessment(ctx, sampleAssessment("a", base)))
	require.NoError(t, s.SaveAssessment(ctx, sampleAssessment("b", base.Add(time.Hour))))

	got, err := s.GetAssessment(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.CandidateName)
	assert.Equal(t, types.LevelSenior, got.Level)
	assert.Equal(t, []string{"Python", "SQL"}, got.Skills)
	assert.Equal(t, base, got.CreatedAt)

	list, err := s.ListAssessments(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "newest first")

	list, err = s.ListAssessments(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListAssessmentsOrdersWithinOneSecond(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, s.SaveAssessment(ctx, sampleAssessment("z-older", base)))
	require.NoError(t, s.SaveAssessment(ctx, sampleAssessment("a-newer", base.Add(500*time.Millisecond))))
	require.NoError(t, s.SaveAssessment(ctx, sampleAssessment("m-newest", base.Add(510*time.Millisecond))))

	list, err := s.ListAssessments(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"m-newest", "a-newer", "z-older"}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, base.Add(500*time.Millisecond), list[1].CreatedAt)
}

func TestParseTimeAcceptsLegacyRows(t *testing.T) {
	want := time.Date(2024, 1, 2, 3, 4, 5, 500_000_000, time.UTC)
	assert.Equal(t, want, parseTime("2024-01-02T03:04:05.5Z"))
	assert.Equal(t, want, parseTime(formatTime(want)))
	assert.Equal(t, "2024-01-02T03:04:05.500000000Z", formatTime(want))
	assert.True(t, parseTime("garbage").IsZero())
}

func TestSaveAssessmentUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r := sampleAssessment("same", time.Now())
	require.NoError(t, s.SaveAssessment(ctx, r))
	r.Role = "Frontend Engineer"
	require.NoError(t, s.SaveAssessment(ctx, r))

	list, err := s.ListAssessments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Frontend Engineer", list[0].Role)
}

func TestGetAssessmentNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetAssessment(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestClearAssessments(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveAssessment(ctx, sampleAssessment("x", time.Now())))

	n, err := s.ClearAssessments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := s.ListAssessments(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTopCandidates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	totals := map[string]float64{"low": 40, "high": 92.5, "mid": 70, "top": 99}
	for name, total := range totals {
		saved, err := s.SaveResult(ctx, types.CandidateResult{
			JDTitle:       "Backend",
			CandidateName: name,
			TotalScore:    total,
		})
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)
		assert.False(t, saved.CreatedAt.IsZero())
	}

	top, err := s.TopCandidates(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "top", top[0].CandidateName)
	assert.Equal(t, "high", top[1].CandidateName)
	assert.Equal(t, "mid", top[2].CandidateName)

	all, err := s.AllResults(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	n, err := s.ClearResults(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	top, err = s.TopCandidates(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestSaveResultRequiresName(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SaveResult(context.Background(), types.CandidateResult{TotalScore: 10})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}
