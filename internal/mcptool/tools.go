// Package mcptool exposes the assessment pipeline as MCP tools over stdio.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"hrintel/internal/assessment"
	"hrintel/internal/errors"
	"hrintel/internal/types"
)

// TopStore returns stored candidate rankings.
type TopStore interface {
	TopCandidates(ctx context.Context, limit int) (types.ResultList, error)
}

// Tools holds what the MCP tool handlers need.
type Tools struct {
	service  *assessment.Service
	store    TopStore
	validate *validator.Validate
	logger   *errors.Logger
}

type assessArgs struct {
	JobDescription  string `validate:"required"`
	CandidateName   string `validate:"max=200"`
	Level           string
	TechnicalWeight *int `validate:"omitempty,gte=0,lte=100"`
	Save            bool
	AI              bool
}

type extractArgs struct {
	JobDescription string `validate:"required"`
}

type topArgs struct {
	Limit int `validate:"gte=0,lte=1000"`
}

// NewTools creates the handlers. store may be nil, in which case
// top_candidates reports an error.
func NewTools(service *assessment.Service, store TopStore, logger *errors.Logger) *Tools {
	return &Tools{
		service:  service,
		store:    store,
		validate: validator.New(),
		logger:   logger,
	}
}

// NewServer registers every tool on a new MCP server.
func NewServer(name, version string, t *Tools) *server.MCPServer {
	s := server.NewMCPServer(name, version)

	assessTool := mcp.NewTool("assess_job_description",
		mcp.WithDescription("Extract skills, infer the role and generate targeted interview questions for a job description"),
	)
	assessTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"job_description":  map[string]any{"type": "string", "description": "The full job description text"},
			"candidate_name":   map[string]any{"type": "string", "description": "Candidate name (optional)"},
			"level":            map[string]any{"type": "string", "enum": []string{"junior", "mid", "senior"}, "description": "Seniority level (default: mid)"},
			"technical_weight": map[string]any{"type": "integer", "description": "Technical weight 0..100 (default: 70)"},
			"save":             map[string]any{"type": "boolean", "description": "Store the assessment in history"},
			"ai":               map[string]any{"type": "boolean", "description": "Request an AI written insight"},
		},
		Required: []string{"job_description"},
	}
	s.AddTool(assessTool, t.handleAssess)

	extractTool := mcp.NewTool("extract_skills",
		mcp.WithDescription("Detect known skills in a job description and suggest a role"),
	)
	extractTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"job_description": map[string]any{"type": "string", "description": "The full job description text"},
		},
		Required: []string{"job_description"},
	}
	s.AddTool(extractTool, t.handleExtract)

	topTool := mcp.NewTool("top_candidates",
		mcp.WithDescription("List the highest scoring interviewed candidates"),
	)
	topTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Max candidates to return (default: 10)"},
		},
	}
	s.AddTool(topTool, t.handleTopCandidates)

	return s
}

// Serve runs the MCP server on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func (t *Tools) handleAssess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	in := assessArgs{
		JobDescription: stringArg(args, "job_description"),
		CandidateName:  stringArg(args, "candidate_name"),
		Level:          stringArg(args, "level"),
		Save:           boolArg(args, "save"),
		AI:             boolArg(args, "ai"),
	}
	if v, ok := args["technical_weight"].(float64); ok {
		if v != math.Trunc(v) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: technical_weight must be a whole number, got %v", v)), nil
		}
		w := int(v)
		in.TechnicalWeight = &w
	}
	if err := t.validate.Struct(in); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	var level types.SeniorityLevel
	if in.Level != "" {
		parsed, err := types.ParseLevel(in.Level)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		level = parsed
	}

	result, err := t.service.Assess(ctx, assessment.Request{
		AssessInput: types.AssessInput{
			JobDescription:  in.JobDescription,
			CandidateName:   in.CandidateName,
			Level:           level,
			TechnicalWeight: in.TechnicalWeight,
		},
		UseAI: in.AI,
		Save:  in.Save,
	})
	if err != nil {
		t.logger.LogError(err, "MCP assessment failed")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to assess job description: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *Tools) handleExtract(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	in := extractArgs{JobDescription: stringArg(args, "job_description")}
	if err := t.validate.Struct(in); err != nil {
		return mcp.NewToolResultError("job_description is required"), nil
	}
	return jsonResult(t.service.Assessor().Extract(in.JobDescription))
}

func (t *Tools) handleTopCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.store == nil {
		return mcp.NewToolResultError("history store is not configured"), nil
	}
	var in topArgs
	if args, ok := request.Params.Arguments.(map[string]any); ok {
		if v, ok := args["limit"].(float64); ok {
			in.Limit = int(v)
		}
	}
	if err := t.validate.Struct(in); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	results, err := t.store.TopCandidates(ctx, in.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load candidates: %v", err)), nil
	}
	if results == nil {
		results = types.ResultList{}
	}
	return jsonResult(results)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}
