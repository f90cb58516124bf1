// Package catalog holds the skill dictionary, role rules and question
// templates that drive an assessment. A Catalog is treated as immutable once
// it has been validated; runtime changes go through Holder.
package catalog

import (
	"strings"

	"hrintel/internal/types"
)

const (
	// SkillPlaceholder is replaced by the skill label in question templates.
	SkillPlaceholder = "{skill}"
	// LevelPlaceholder is replaced by the seniority level in question templates.
	LevelPlaceholder = "{level}"

	DefaultRole         = "Software Engineer"
	DefaultMinQuestions = 10
	DefaultMaxQuestions = 12
	DefaultFallback     = "Explain a complex technical challenge you solved recently."
)

// SkillEntry maps a lowercase keyword to the canonical skill label it implies.
type SkillEntry struct {
	Keyword string `yaml:"keyword" json:"keyword"`
	Label   string `yaml:"label" json:"label"`
}

// RoleRule suggests Role when every label in All is present and, if Any is
// non-empty, at least one label in Any is present.
type RoleRule struct {
	Role string   `yaml:"role" json:"role"`
	All  []string `yaml:"all,omitempty" json:"all,omitempty"`
	Any  []string `yaml:"any,omitempty" json:"any,omitempty"`
}

// Matches evaluates the rule against a membership test.
func (r RoleRule) Matches(has func(label string) bool) bool {
	for _, label := range r.All {
		if !has(label) {
			return false
		}
	}
	if len(r.Any) == 0 {
		return true
	}
	for _, label := range r.Any {
		if has(label) {
			return true
		}
	}
	return false
}

// Roles is the ordered rule list plus the role used when nothing matches.
type Roles struct {
	Default string     `yaml:"default" json:"default"`
	Rules   []RoleRule `yaml:"rules" json:"rules"`
}

// LevelTemplates are the questions specific to one seniority level.
type LevelTemplates struct {
	PerSkill []string `yaml:"perSkill" json:"perSkill"`
	Closing  []string `yaml:"closing" json:"closing"`
}

// Questions configures question generation. Behavioral questions and
// assessment tasks are fixed lists reported alongside the technical set.
type Questions struct {
	Min        int                       `yaml:"min" json:"min"`
	Max        int                       `yaml:"max" json:"max"`
	Fallback   string                    `yaml:"fallback" json:"fallback"`
	Common     []string                  `yaml:"common" json:"common"`
	Levels     map[string]LevelTemplates `yaml:"levels" json:"levels"`
	Behavioral []string                  `yaml:"behavioral" json:"behavioral"`
	Tasks      []string                  `yaml:"tasks" json:"tasks"`
}

// Catalog is the full set of reference data used by the assessment pipeline.
type Catalog struct {
	Skills    []SkillEntry `yaml:"skills" json:"skills"`
	Roles     Roles        `yaml:"roles" json:"roles"`
	Questions Questions    `yaml:"questions" json:"questions"`
	Rubric    types.Rubric `yaml:"rubric" json:"rubric"`
}

// ForLevel returns the templates configured for level.
func (q Questions) ForLevel(level types.SeniorityLevel) LevelTemplates {
	return q.Levels[levelKey(level)]
}

func levelKey(level types.SeniorityLevel) string {
	return strings.ToLower(string(level))
}

// Labels returns the distinct canonical labels of the dictionary in entry order.
func (c *Catalog) Labels() []string {
	seen := make(map[string]bool, len(c.Skills))
	labels := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		if !seen[s.Label] {
			seen[s.Label] = true
			labels = append(labels, s.Label)
		}
	}
	return labels
}

// Default returns a fresh copy of the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Skills: []SkillEntry{
			{Keyword: "python", Label: "Python"},
			{Keyword: "sql", Label: "SQL"},
			{Keyword: "docker", Label: "Docker"},
			{Keyword: "kubernetes", Label: "Kubernetes"},
			{Keyword: "aws", Label: "AWS"},
			{Keyword: "azure", Label: "Azure"},
			{Keyword: "react", Label: "React"},
			{Keyword: "machine learning", Label: "Machine Learning"},
			{Keyword: "data analysis", Label: "Data Analysis"},
			{Keyword: "devops", Label: "DevOps"},
			{Keyword: "ci/cd", Label: "CI/CD"},
			{Keyword: "terraform", Label: "Terraform"},
			{Keyword: "linux", Label: "Linux"},
		},
		Roles: Roles{
			Default: DefaultRole,
			Rules: []RoleRule{
				{Role: "Data Scientist / ML Engineer", All: []string{"Machine Learning"}},
				{Role: "Cloud / DevOps Engineer", All: []string{"DevOps"}},
				{Role: "Frontend Engineer", All: []string{"React"}},
				{Role: "Backend Engineer", All: []string{"Python"}},
			},
		},
		Questions: Questions{
			Min:      DefaultMinQuestions,
			Max:      DefaultMaxQuestions,
			Fallback: DefaultFallback,
			Common: []string{
				"Explain fundamentals of {skill}.",
				"Describe a production project using {skill}.",
				"How do you debug failures in {skill} systems?",
				"Security risks associated with {skill}.",
				"Scaling strategies for {skill}.",
			},
			Levels: map[string]LevelTemplates{
				"junior": {
					PerSkill: []string{"Walk through the basics of {skill} you use most often."},
					Closing: []string{
						"What technical problem did you recently solve?",
						"Explain a system you built end-to-end.",
					},
				},
				"mid": {
					PerSkill: []string{"How have you improved an existing {skill} setup in production?"},
					Closing: []string{
						"How do you mentor juniors?",
						"How do you design fault tolerant systems?",
					},
				},
				"senior": {
					PerSkill: []string{"How would you architect a large-scale platform around {skill}?"},
					Closing: []string{
						"Describe the largest system you architected.",
						"How do you evaluate trade-offs in architecture?",
					},
				},
			},
			Behavioral: []string{
				"Describe a time you solved a hard technical problem.",
				"How do you handle tight deadlines?",
				"Tell about a conflict in your team.",
				"How do you learn new technologies?",
				"Explain a failure and what you learned.",
			},
			Tasks: []string{
				"Build a simple CI/CD pipeline for a Python application.",
				"Deploy an application using Docker + Kubernetes.",
				"Write a system design document for scalable deployment.",
			},
		},
		Rubric: DefaultRubric(),
	}
}

// DefaultRubric returns the standard interview scoring rubric.
func DefaultRubric() types.Rubric {
	return types.Rubric{
		{Name: "Technical Skill", Weight: 40},
		{Name: "Problem Solving", Weight: 25},
		{Name: "System Design", Weight: 20},
		{Name: "Communication", Weight: 15},
	}
}
