// Package assessment implements the job description pipeline: skill
// extraction, role inference, question generation and summary building.
// Every function here is pure and safe for concurrent use.
package assessment

import (
	"slices"
	"strings"

	"hrintel/internal/catalog"
)

// SkillSet is a deduplicated set of canonical skill labels. It has no order
// of its own; Sorted gives the canonical order used for all output.
type SkillSet map[string]struct{}

// NewSkillSet builds a set from labels.
func NewSkillSet(labels ...string) SkillSet {
	s := make(SkillSet, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

// Has reports whether label is in the set.
func (s SkillSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Len returns the number of skills.
func (s SkillSet) Len() int {
	return len(s)
}

// Sorted returns the labels in lexicographic order.
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// ExtractSkills returns every label whose keyword occurs in text, compared
// case-insensitively as a plain substring. Overlapping keywords all match.
// Text with no known keyword yields an empty set.
func ExtractSkills(text string, dict []catalog.SkillEntry) SkillSet {
	lowered := strings.ToLower(text)
	skills := make(SkillSet)
	for _, entry := range dict {
		if entry.Keyword == "" {
			continue
		}
		if strings.Contains(lowered, entry.Keyword) {
			skills[entry.Label] = struct{}{}
		}
	}
	return skills
}

// InferRole returns the role of the first rule matching skills, in rule
// order, or roles.Default when none match.
func InferRole(skills SkillSet, roles catalog.Roles) string {
	for _, rule := range roles.Rules {
		if rule.Matches(skills.Has) {
			return rule.Role
		}
	}
	return roles.Default
}
