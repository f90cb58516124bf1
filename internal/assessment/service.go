package assessment

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"hrintel/internal/errors"
	"hrintel/internal/types"
)

// InsightGenerator writes a richer insight than the built-in template.
type InsightGenerator interface {
	GenerateInsight(ctx context.Context, req types.InsightRequest) (*types.InsightResponse, error)
}

// Recorder persists finished assessments.
type Recorder interface {
	SaveAssessment(ctx context.Context, result *types.AssessmentResult) error
}

// Request is an assessment plus what to do with the result.
type Request struct {
	types.AssessInput
	UseAI bool
	Save  bool
}

// Service wraps an Assessor with optional AI insight and persistence.
type Service struct {
	assessor *Assessor
	insight  InsightGenerator
	recorder Recorder
	logger   *errors.Logger
}

// NewService creates a service. insight and recorder may be nil.
func NewService(assessor *Assessor, insight InsightGenerator, recorder Recorder, logger *errors.Logger) *Service {
	return &Service{
		assessor: assessor,
		insight:  insight,
		recorder: recorder,
		logger:   logger,
	}
}

// Assessor returns the underlying pure pipeline.
func (s *Service) Assessor() *Assessor {
	return s.assessor
}

// InsightEnabled reports whether an AI insight generator is configured.
func (s *Service) InsightEnabled() bool {
	return s.insight != nil
}

// Assess runs the pipeline. AI failures keep the template insight and are
// only logged; persistence failures are returned.
func (s *Service) Assess(ctx context.Context, req Request) (*types.AssessmentResult, error) {
	start := time.Now()
	result, err := s.assessor.Assess(req.AssessInput)
	if err != nil {
		return nil, err
	}

	if req.UseAI {
		s.enrich(ctx, req.JobDescription, result)
	}

	if req.Save {
		if s.recorder == nil {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "history store is not configured", nil)
		}
		if err := s.recorder.SaveAssessment(ctx, result); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Assessment completed",
		"id", result.ID,
		"role", result.Role,
		"level", result.Level,
		"skills", len(result.Skills),
		"questions", len(result.Questions),
		"insight_source", result.Summary.InsightSource,
		"saved", req.Save,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

func (s *Service) enrich(ctx context.Context, jd string, result *types.AssessmentResult) {
	if s.insight == nil {
		s.logger.Warn("AI insight requested but AI is disabled, using template insight")
		return
	}
	resp, err := s.insight.GenerateInsight(ctx, types.InsightRequest{
		JobDescription: jd,
		Skills:         result.Skills,
		Role:           result.Role,
		Level:          result.Level,
		Focus:          result.Summary.Focus,
	})
	if err != nil {
		s.logger.LogError(err, "AI insight failed, using template insight", "id", result.ID)
		return
	}
	if resp == nil || resp.Insight == "" {
		s.logger.Warn("AI insight was empty, using template insight", "id", result.ID)
		return
	}
	result.Summary.Insight = resp.Insight
	result.Summary.FocusAreas = resp.FocusAreas
	result.Summary.InsightSource = types.InsightSourceAI
	s.logger.Info("AI insight generated",
		"id", result.ID,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"total_tokens", resp.TotalTokens)
}

// BatchInput is one named job description in a batch.
type BatchInput struct {
	Source string
	Request
}

// AssessBatch assesses inputs concurrently, at most limit at a time, and
// returns the outcomes in input order. A failing item does not stop the
// others; only context cancellation aborts the batch.
func (s *Service) AssessBatch(ctx context.Context, inputs []BatchInput, limit int) (types.BatchResult, error) {
	if limit <= 0 {
		limit = 4
	}
	out := make(types.BatchResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item := types.BatchItem{Source: in.Source}
			result, err := s.Assess(gctx, in.Request)
			if err != nil {
				item.Error = err.Error()
				s.logger.LogError(err, "Batch item failed", "source", in.Source)
			} else {
				item.Result = result
			}
			out[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
