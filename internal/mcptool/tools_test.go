package mcptool

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrintel/internal/assessment"
	"hrintel/internal/catalog"
	"hrintel/internal/errors"
	"hrintel/internal/store"
	"hrintel/internal/types"
)

func newTestTools(t *testing.T) (*Tools, *store.Store) {
	t.Helper()
	holder, err := catalog.NewHolder(catalog.Default(), "builtin")
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(t.TempDir(), "mcp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	logger := errors.NewNopLogger()
	svc := assessment.NewService(assessment.NewAssessor(holder), nil, st, logger)
	return NewTools(svc, st, logger), st
}

func callRequest(name string, args any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestAssessTool(t *testing.T) {
	tools, st := newTestTools(t)

	res, err := tools.handleAssess(context.Background(), callRequest("assess_job_description", map[string]any{
		"job_description":  "Machine learning engineer with Python",
		"level":            "junior",
		"technical_weight": float64(40),
		"save":             true,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var got types.AssessmentResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, "Data Scientist / ML Engineer", got.Role)
	assert.Equal(t, types.LevelJunior, got.Level)
	assert.Equal(t, types.FocusBalanced, got.Summary.Focus)

	history, err := st.ListAssessments(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestAssessToolErrors(t *testing.T) {
	tools, _ := newTestTools(t)

	tests := []struct {
		name string
		args any
	}{
		{name: "not an object", args: "text"},
		{name: "missing job description", args: map[string]any{}},
		{name: "weight out of range", args: map[string]any{"job_description": "Go", "technical_weight": float64(150)}},
		{name: "fractional weight", args: map[string]any{"job_description": "Go", "technical_weight": 70.9}},
		{name: "unknown level", args: map[string]any{"job_description": "Go", "level": "staff"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tools.handleAssess(context.Background(), callRequest("assess_job_description", tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}
}

func TestExtractTool(t *testing.T) {
	tools, _ := newTestTools(t)

	res, err := tools.handleExtract(context.Background(), callRequest("extract_skills", map[string]any{
		"job_description": "DevOps role: Terraform, Kubernetes and Linux",
	}))
	require.NoError(t, err)

	var got types.ExtractResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, []string{"DevOps", "Kubernetes", "Linux", "Terraform"}, got.Skills)
	assert.Equal(t, "Cloud / DevOps Engineer", got.Role)

	res, err = tools.handleExtract(context.Background(), callRequest("extract_skills", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestTopCandidatesTool(t *testing.T) {
	tools, st := newTestTools(t)
	ctx := context.Background()

	for _, r := range []types.CandidateResult{
		{CandidateName: "A", TotalScore: 55},
		{CandidateName: "B", TotalScore: 91},
		{CandidateName: "C", TotalScore: 73},
	} {
		_, err := st.SaveResult(ctx, r)
		require.NoError(t, err)
	}

	res, err := tools.handleTopCandidates(ctx, callRequest("top_candidates", map[string]any{"limit": float64(2)}))
	require.NoError(t, err)

	var got types.ResultList
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].CandidateName)
	assert.Equal(t, "C", got[1].CandidateName)

	noStore := NewTools(tools.service, nil, errors.NewNopLogger())
	res, err = noStore.handleTopCandidates(ctx, callRequest("top_candidates", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestNewServer(t *testing.T) {
	tools, _ := newTestTools(t)
	assert.NotNil(t, NewServer("hrintel", "test", tools))
}
