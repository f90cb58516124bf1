package assessment

import (
	"strings"

	"hrintel/internal/catalog"
	"hrintel/internal/types"
)

// GenerateQuestions builds the interview question list for skills at level.
//
// Skills are visited in canonical order. For each one the common templates
// are rendered, then the level's per-skill templates. When at least one
// skill is present the level's closing questions follow. The derived list is
// deduplicated keeping first occurrences, padded with the fallback question
// up to minCount and finally truncated to maxCount, so the result length is
// min(max(derived, minCount), maxCount). Negative counts act as zero.
func GenerateQuestions(skills SkillSet, level types.SeniorityLevel, tpl catalog.Questions, minCount, maxCount int) []string {
	minCount = max(minCount, 0)
	maxCount = max(maxCount, 0)

	lt := tpl.ForLevel(level)
	derived := make([]string, 0, skills.Len()*(len(tpl.Common)+len(lt.PerSkill))+len(lt.Closing))
	seen := make(map[string]bool)
	add := func(q string) {
		if q == "" || seen[q] {
			return
		}
		seen[q] = true
		derived = append(derived, q)
	}

	sorted := skills.Sorted()
	for _, skill := range sorted {
		r := strings.NewReplacer(catalog.SkillPlaceholder, skill, catalog.LevelPlaceholder, string(level))
		for _, t := range tpl.Common {
			add(r.Replace(t))
		}
		for _, t := range lt.PerSkill {
			add(r.Replace(t))
		}
	}
	if len(sorted) > 0 {
		r := strings.NewReplacer(catalog.LevelPlaceholder, string(level))
		for _, t := range lt.Closing {
			add(r.Replace(t))
		}
	}

	questions := derived
	for len(questions) < minCount {
		questions = append(questions, tpl.Fallback)
	}
	if len(questions) > maxCount {
		questions = questions[:maxCount]
	}
	return questions
}
