package server

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"hrintel/internal/assessment"
	"hrintel/internal/types"
)

func (s *Server) assessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("hrintel.api").Start(r.Context(), "api.assess")
	defer span.End()

	var req AssessRequest
	if !s.decodeAndValidate(w, r, &req) {
		span.SetAttributes(attribute.String("error.type", "validation"))
		return
	}

	level := types.SeniorityLevel("")
	if req.Level != "" {
		parsed, err := types.ParseLevel(req.Level)
		if err != nil {
			s.writeAppError(w, err, "assess")
			return
		}
		level = parsed
	}

	span.SetAttributes(
		attribute.Int("request.job_length", len(req.JobDescription)),
		attribute.String("request.level", string(level)),
		attribute.Bool("request.ai", req.AI),
		attribute.Bool("request.save", req.Save),
	)

	result, err := s.service.Assess(ctx, assessment.Request{
		AssessInput: types.AssessInput{
			JobDescription:  req.JobDescription,
			CandidateName:   req.CandidateName,
			Level:           level,
			TechnicalWeight: req.TechnicalWeight,
			MinQuestions:    req.MinQuestions,
			MaxQuestions:    req.MaxQuestions,
		},
		UseAI: req.AI,
		Save:  req.Save,
	})
	if err != nil {
		span.RecordError(err)
		s.writeAppError(w, err, "assess")
		return
	}

	s.metrics().RecordAssessment(ctx, string(result.Level), result.Role,
		len(result.Skills), len(result.Questions), result.Summary.InsightSource == types.InsightSourceAI)
	span.SetAttributes(
		attribute.String("response.role", result.Role),
		attribute.Int("response.skills", len(result.Skills)),
		attribute.Int("response.questions", len(result.Questions)),
	)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.service.Assessor().Extract(req.JobDescription))
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeErrorResponse(w, "Invalid query", err.Error(), http.StatusBadRequest)
		return
	}
	records, err := s.store.ListAssessments(r.Context(), limit)
	if err != nil {
		s.writeAppError(w, err, "history")
		return
	}
	if records == nil {
		records = types.AssessmentHistory{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) historyItemHandler(w http.ResponseWriter, r *http.Request) {
	record, err := s.store.GetAssessment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeAppError(w, err, "history_item")
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) scoreHandler(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	total, err := s.service.Assessor().Score(req.CandidateScores)
	if err != nil {
		s.writeAppError(w, err, "score")
		return
	}

	saved, err := s.store.SaveResult(r.Context(), types.CandidateResult{
		JDTitle:         req.JDTitle,
		CandidateName:   req.CandidateName,
		CandidateScores: req.CandidateScores,
		TotalScore:      total,
	})
	if err != nil {
		s.writeAppError(w, err, "score")
		return
	}
	s.metrics().RecordCandidateScored(r.Context())
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) topResultsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeErrorResponse(w, "Invalid query", err.Error(), http.StatusBadRequest)
		return
	}
	results, err := s.store.TopCandidates(r.Context(), limit)
	if err != nil {
		s.writeAppError(w, err, "top_results")
		return
	}
	if results == nil {
		results = types.ResultList{}
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) clearResultsHandler(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.ClearResults(r.Context())
	if err != nil {
		s.writeAppError(w, err, "clear_results")
		return
	}
	s.Logger.Info("Candidate results cleared", "deleted", deleted)
	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

// catalogHandler summarizes the catalog currently in effect.
func (s *Server) catalogHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.holder.Snapshot()
	c := snap.Catalog

	roles := make([]string, 0, len(c.Roles.Rules))
	for _, rule := range c.Roles.Rules {
		roles = append(roles, rule.Role)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"source":      snap.Source,
		"version":     snap.Version,
		"loadedAt":    snap.LoadedAt,
		"skills":      c.Labels(),
		"keywords":    len(c.Skills),
		"roles":       roles,
		"defaultRole": c.Roles.Default,
		"questions": map[string]any{
			"min":        c.Questions.Min,
			"max":        c.Questions.Max,
			"behavioral": c.Questions.Behavioral,
			"tasks":      c.Questions.Tasks,
		},
		"rubric": c.Rubric,
	})
}
