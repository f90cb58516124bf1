package assessment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"hrintel/internal/catalog"
	"hrintel/internal/errors"
	"hrintel/internal/types"
)

// Assessor runs the pipeline against the catalog currently held by a Holder.
type Assessor struct {
	holder       *catalog.Holder
	defaultLevel types.SeniorityLevel
	defaultTech  int
	now          func() time.Time
	newID        func() string
}

// Option configures an Assessor.
type Option func(*Assessor)

// WithDefaultLevel sets the level used when the input has none.
func WithDefaultLevel(level types.SeniorityLevel) Option {
	return func(a *Assessor) { a.defaultLevel = level }
}

// WithDefaultTechnicalWeight sets the weight used when the input has none.
func WithDefaultTechnicalWeight(weight int) Option {
	return func(a *Assessor) { a.defaultTech = weight }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Assessor) { a.now = now }
}

// WithIDGenerator overrides how assessment ids are produced.
func WithIDGenerator(fn func() string) Option {
	return func(a *Assessor) { a.newID = fn }
}

// NewAssessor creates an Assessor bound to holder.
func NewAssessor(holder *catalog.Holder, opts ...Option) *Assessor {
	a := &Assessor{
		holder:       holder,
		defaultLevel: types.LevelMid,
		defaultTech:  DefaultTechnicalWeight,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Catalog returns the catalog currently in effect.
func (a *Assessor) Catalog() *catalog.Catalog {
	return a.holder.Current()
}

// Extract runs skill extraction and role inference only.
func (a *Assessor) Extract(text string) types.ExtractResult {
	c := a.holder.Current()
	skills := ExtractSkills(text, c.Skills)
	return types.ExtractResult{
		Skills: skills.Sorted(),
		Role:   InferRole(skills, c.Roles),
	}
}

// Assess validates input and runs the full pipeline on one catalog snapshot.
func (a *Assessor) Assess(input types.AssessInput) (*types.AssessmentResult, error) {
	if strings.TrimSpace(input.JobDescription) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyInput, "job description is empty", nil)
	}

	level := input.Level
	if level == "" {
		level = a.defaultLevel
	}
	if !level.Valid() {
		parsed, err := types.ParseLevel(string(level))
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	weight := a.defaultTech
	if input.TechnicalWeight != nil {
		weight = *input.TechnicalWeight
	}
	if err := ValidateWeight(weight); err != nil {
		return nil, err
	}

	if input.MinQuestions < 0 || input.MaxQuestions < 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "question counts must not be negative", nil)
	}

	c := a.holder.Current()
	minCount, maxCount := input.MinQuestions, input.MaxQuestions
	if minCount == 0 {
		minCount = c.Questions.Min
	}
	if maxCount == 0 {
		maxCount = max(c.Questions.Max, minCount)
	}

	skills := ExtractSkills(input.JobDescription, c.Skills)
	return &types.AssessmentResult{
		ID:            a.newID(),
		CandidateName: strings.TrimSpace(input.CandidateName),
		Level:         level,
		Skills:        skills.Sorted(),
		Role:          InferRole(skills, c.Roles),
		Questions:     GenerateQuestions(skills, level, c.Questions, minCount, maxCount),
		Behavioral:    append([]string(nil), c.Questions.Behavioral...),
		Tasks:         append([]string(nil), c.Questions.Tasks...),
		Summary:       Summarize(skills, level, weight),
		Rubric:        append(types.Rubric(nil), c.Rubric...),
		CreatedAt:     a.now().UTC(),
	}, nil
}

// Score computes a candidate's weighted total against the current rubric.
func (a *Assessor) Score(scores types.CandidateScores) (float64, error) {
	return ScoreCandidate(a.holder.Current().Rubric, scores)
}
