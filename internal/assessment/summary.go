package assessment

import (
	"fmt"
	"math"
	"strings"

	"hrintel/internal/errors"
	"hrintel/internal/types"
)

const (
	// DefaultTechnicalWeight is the technical share used when none is given.
	DefaultTechnicalWeight = 70
	// TechnicalHeavyThreshold is the weight from which focus is "Technical Heavy".
	TechnicalHeavyThreshold = 65

	noSkillsPhrase = "general engineering fundamentals"
)

// ValidateWeight checks that a technical weight is a percentage.
func ValidateWeight(weight int) error {
	if weight < 0 || weight > 100 {
		return errors.NewValidationError(errors.ErrCodeInvalidWeight,
			fmt.Sprintf("technical weight must be between 0 and 100, got %d", weight), nil).
			WithContext("technical_weight", weight)
	}
	return nil
}

// Summarize builds the overview for an assessment. The weight must already
// be validated.
func Summarize(skills SkillSet, level types.SeniorityLevel, technicalWeight int) types.Summary {
	focus := types.FocusBalanced
	if technicalWeight >= TechnicalHeavyThreshold {
		focus = types.FocusTechnicalHeavy
	}
	return types.Summary{
		Focus:           focus,
		TechnicalWeight: technicalWeight,
		SoftWeight:      100 - technicalWeight,
		Insight:         TemplateInsight(skills.Sorted(), level),
		InsightSource:   types.InsightSourceTemplate,
	}
}

// TemplateInsight renders the deterministic insight sentence.
func TemplateInsight(sortedSkills []string, level types.SeniorityLevel) string {
	focus := noSkillsPhrase
	if len(sortedSkills) > 0 {
		focus = strings.Join(sortedSkills, ", ")
	}
	return fmt.Sprintf("This JD focuses on %s. Candidate should demonstrate system thinking, "+
		"problem-solving ability and leadership expected for a %s role.", focus, level)
}

// ScoreCandidate computes the weighted total (0..100) of interviewer scores
// given on a 0..10 scale. Criteria are matched to scores in rubric order:
// technical, problem solving, system design, communication.
func ScoreCandidate(rubric types.Rubric, scores types.CandidateScores) (float64, error) {
	values := []float64{scores.Technical, scores.ProblemSolving, scores.SystemDesign, scores.Communication}
	if len(rubric) != len(values) {
		return 0, errors.NewValidationError(errors.ErrCodeInvalidScore,
			fmt.Sprintf("rubric has %d criteria, expected %d", len(rubric), len(values)), nil)
	}

	var total float64
	for i, v := range values {
		if math.IsNaN(v) || v < 0 || v > 10 {
			return 0, errors.NewValidationError(errors.ErrCodeInvalidScore,
				fmt.Sprintf("%s score must be between 0 and 10, got %v", rubric[i].Name, v), nil).
				WithContext("criterion", rubric[i].Name)
		}
		total += v * float64(rubric[i].Weight) / 10
	}
	return math.Round(total*100) / 100, nil
}
