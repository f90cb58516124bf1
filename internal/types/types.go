package types

import (
	"strings"
	"time"
	"unicode"

	"hrintel/internal/errors"
)

// SeniorityLevel is the experience level an interview is tuned for.
type SeniorityLevel string

const (
	LevelJunior SeniorityLevel = "Junior"
	LevelMid    SeniorityLevel = "Mid"
	LevelSenior SeniorityLevel = "Senior"
)

// Levels lists every supported seniority level in ascending order.
var Levels = []SeniorityLevel{LevelJunior, LevelMid, LevelSenior}

// ParseLevel parses a seniority level case-insensitively.
func ParseLevel(s string) (SeniorityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "junior":
		return LevelJunior, nil
	case "mid":
		return LevelMid, nil
	case "senior":
		return LevelSenior, nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeInvalidLevel,
			"unsupported seniority level '"+s+"'. Supported levels: Junior, Mid, Senior", nil).
			WithContext("level", s)
	}
}

func (l SeniorityLevel) String() string {
	return string(l)
}

// Valid reports whether l is one of the supported levels.
func (l SeniorityLevel) Valid() bool {
	switch l {
	case LevelJunior, LevelMid, LevelSenior:
		return true
	}
	return false
}

const (
	// NoCandidateName is displayed when an assessment has no candidate name.
	NoCandidateName = "N/A"

	FocusTechnicalHeavy = "Technical Heavy"
	FocusBalanced       = "Balanced"

	InsightSourceTemplate = "template"
	InsightSourceAI       = "ai"
)

// Summary is the assessment overview shown above the question list.
type Summary struct {
	Focus           string   `json:"focus"`
	TechnicalWeight int      `json:"technicalWeight"`
	SoftWeight      int      `json:"softWeight"`
	Insight         string   `json:"insight"`
	InsightSource   string   `json:"insightSource"`
	FocusAreas      []string `json:"focusAreas,omitempty"`
}

// RubricCriterion is one weighted scoring criterion.
type RubricCriterion struct {
	Name   string `json:"name" yaml:"name"`
	Weight int    `json:"weight" yaml:"weight"`
}

// Rubric is the ordered set of scoring criteria. Weights sum to 100.
type Rubric []RubricCriterion

// AssessInput is the input of a single assessment.
type AssessInput struct {
	JobDescription  string         `json:"jobDescription"`
	CandidateName   string         `json:"candidateName,omitempty"`
	Level           SeniorityLevel `json:"level"`
	TechnicalWeight *int           `json:"technicalWeight,omitempty"`
	MinQuestions    int            `json:"minQuestions,omitempty"`
	MaxQuestions    int            `json:"maxQuestions,omitempty"`
}

// AssessmentResult is the output of the skill/role/question pipeline.
type AssessmentResult struct {
	ID            string         `json:"id"`
	CandidateName string         `json:"candidateName,omitempty"`
	Level         SeniorityLevel `json:"level"`
	Skills        []string       `json:"skills"`
	Role          string         `json:"role"`
	Questions     []string       `json:"questions"`
	Behavioral    []string       `json:"behavioralQuestions"`
	Tasks         []string       `json:"tasks"`
	Summary       Summary        `json:"summary"`
	Rubric        Rubric         `json:"rubric"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// DisplayName returns the candidate name or "N/A" when it is empty.
func (r *AssessmentResult) DisplayName() string {
	if strings.TrimSpace(r.CandidateName) == "" {
		return NoCandidateName
	}
	return r.CandidateName
}

// ReportFilename suggests a file name for an exported report. Runs of anything
// in the candidate name other than letters, digits and '-' collapse to one
// underscore, so the result is always a bare file name.
func (r *AssessmentResult) ReportFilename(ext string) string {
	name := fileSafe(r.CandidateName)
	if name == "" {
		return "Assessment_Report." + ext
	}
	return "Assessment_" + name + "." + ext
}

func fileSafe(s string) string {
	var b strings.Builder
	pending := false
	for _, c := range s {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(c)
			continue
		}
		pending = true
	}
	return b.String()
}

// ExtractResult is the skills-and-role subset of an assessment.
type ExtractResult struct {
	Skills []string `json:"skills"`
	Role   string   `json:"role"`
}

// CandidateScores holds interviewer scores on a 0..10 scale.
type CandidateScores struct {
	Technical      float64 `json:"technical" validate:"gte=0,lte=10"`
	ProblemSolving float64 `json:"problemSolving" validate:"gte=0,lte=10"`
	SystemDesign   float64 `json:"systemDesign" validate:"gte=0,lte=10"`
	Communication  float64 `json:"communication" validate:"gte=0,lte=10"`
}

// CandidateResult is a persisted scoring record.
type CandidateResult struct {
	ID            int64  `json:"id"`
	JDTitle       string `json:"jdTitle"`
	CandidateName string `json:"candidateName"`
	CandidateScores
	TotalScore float64   `json:"totalScore"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AssessmentRecord is the persisted summary of an assessment.
type AssessmentRecord struct {
	ID              string         `json:"id"`
	CandidateName   string         `json:"candidateName,omitempty"`
	Role            string         `json:"role"`
	Level           SeniorityLevel `json:"level"`
	Skills          []string       `json:"skills"`
	Questions       []string       `json:"questions"`
	Focus           string         `json:"focus"`
	TechnicalWeight int            `json:"technicalWeight"`
	Insight         string         `json:"insight"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// AssessmentHistory is a list of stored assessments, used for formatting.
type AssessmentHistory []AssessmentRecord

// ResultList is a list of stored candidate results, used for formatting.
type ResultList []CandidateResult

// BatchItem is the outcome of assessing one file in a batch run.
type BatchItem struct {
	Source string            `json:"source"`
	Result *AssessmentResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// BatchResult is the ordered outcome of a batch run.
type BatchResult []BatchItem

// InsightRequest is what an insight generator gets to write a summary.
type InsightRequest struct {
	JobDescription string         `json:"jobDescription"`
	Skills         []string       `json:"skills"`
	Role           string         `json:"role"`
	Level          SeniorityLevel `json:"level"`
	Focus          string         `json:"focus"`
}

// InsightResponse is a generated insight with its token accounting.
type InsightResponse struct {
	Insight      string   `json:"insight"`
	FocusAreas   []string `json:"focusAreas"`
	InputTokens  int64    `json:"-"`
	OutputTokens int64    `json:"-"`
	TotalTokens  int64    `json:"-"`
}
