package catalog

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"hrintel/internal/errors"
	"hrintel/internal/types"
)

// RubricSize is the number of criteria a rubric must define; scores are
// recorded for exactly these four dimensions.
const RubricSize = 4

// Load reads, normalizes and validates a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound, "catalog file not found", err).
				WithContext("path", path)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read catalog file", err).
			WithContext("path", path)
	}

	c, err := Parse(data)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return nil, appErr.WithContext("path", path)
		}
		return nil, err
	}
	return c, nil
}

// presence records which scalar settings a document spelled out, so that an
// explicit zero is not mistaken for an omitted key.
type presence struct {
	Questions struct {
		Min *int `yaml:"min"`
		Max *int `yaml:"max"`
	} `yaml:"questions"`
}

// Parse decodes a YAML catalog. Keys left out of the document fall back to
// the built-in defaults. The default role rules only apply together with the
// default dictionary: a file that supplies its own skills gets no role rules
// unless it lists them, so it may override only the dictionary.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidCatalog, "failed to parse catalog YAML", err)
	}

	var set presence
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidCatalog, "failed to parse catalog YAML", err)
	}

	c.fillDefaults(set)
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal encodes the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Catalog) fillDefaults(set presence) {
	def := Default()
	if len(c.Skills) == 0 {
		c.Skills = def.Skills
		if c.Roles.Rules == nil {
			c.Roles.Rules = def.Roles.Rules
		}
	}
	if c.Roles.Default == "" {
		c.Roles.Default = def.Roles.Default
	}
	if set.Questions.Min == nil {
		c.Questions.Min = def.Questions.Min
	}
	if set.Questions.Max == nil {
		c.Questions.Max = max(def.Questions.Max, c.Questions.Min)
	}
	if c.Questions.Fallback == "" {
		c.Questions.Fallback = def.Questions.Fallback
	}
	if c.Questions.Common == nil {
		c.Questions.Common = def.Questions.Common
	}
	if c.Questions.Levels == nil {
		c.Questions.Levels = def.Questions.Levels
	}
	if c.Questions.Behavioral == nil {
		c.Questions.Behavioral = def.Questions.Behavioral
	}
	if c.Questions.Tasks == nil {
		c.Questions.Tasks = def.Questions.Tasks
	}
	if len(c.Rubric) == 0 {
		c.Rubric = def.Rubric
	}
}

func (c *Catalog) normalize() {
	for i := range c.Skills {
		c.Skills[i].Keyword = strings.ToLower(strings.TrimSpace(c.Skills[i].Keyword))
		c.Skills[i].Label = strings.TrimSpace(c.Skills[i].Label)
	}
	levels := make(map[string]LevelTemplates, len(c.Questions.Levels))
	for k, v := range c.Questions.Levels {
		levels[strings.ToLower(strings.TrimSpace(k))] = v
	}
	c.Questions.Levels = levels
}

// Validate checks the catalog for structural problems and reports all of
// them in a single validation error.
func (c *Catalog) Validate() error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(c.Skills) == 0 {
		addf("skills: dictionary is empty")
	}
	keywords := make(map[string]bool, len(c.Skills))
	labels := make(map[string]bool, len(c.Skills))
	for i, s := range c.Skills {
		if s.Keyword == "" {
			addf("skills[%d]: keyword is empty", i)
		} else if s.Keyword != strings.ToLower(s.Keyword) {
			addf("skills[%d]: keyword %q is not lowercase", i, s.Keyword)
		}
		if s.Label == "" {
			addf("skills[%d]: label is empty", i)
		}
		if keywords[s.Keyword] {
			addf("skills[%d]: duplicate keyword %q", i, s.Keyword)
		}
		keywords[s.Keyword] = true
		labels[s.Label] = true
	}

	if strings.TrimSpace(c.Roles.Default) == "" {
		addf("roles.default: default role is empty")
	}
	for i, r := range c.Roles.Rules {
		if strings.TrimSpace(r.Role) == "" {
			addf("roles.rules[%d]: role is empty", i)
		}
		if len(r.All) == 0 && len(r.Any) == 0 {
			addf("roles.rules[%d]: rule %q has no predicate", i, r.Role)
		}
		for _, l := range append(append([]string{}, r.All...), r.Any...) {
			if !labels[l] {
				addf("roles.rules[%d]: label %q is not in the skill dictionary", i, l)
			}
		}
	}

	q := c.Questions
	if q.Min < 0 || q.Max < 0 {
		addf("questions: min and max must not be negative")
	}
	if q.Min > q.Max {
		addf("questions: min (%d) is greater than max (%d)", q.Min, q.Max)
	}
	if strings.TrimSpace(q.Fallback) == "" {
		addf("questions.fallback: fallback question is empty")
	}
	for i, tpl := range q.Common {
		if !strings.Contains(tpl, SkillPlaceholder) {
			addf("questions.common[%d]: template lacks %s", i, SkillPlaceholder)
		}
	}
	for key, lt := range q.Levels {
		if _, err := types.ParseLevel(key); err != nil {
			addf("questions.levels: unknown level %q", key)
			continue
		}
		for i, tpl := range lt.PerSkill {
			if !strings.Contains(tpl, SkillPlaceholder) {
				addf("questions.levels.%s.perSkill[%d]: template lacks %s", key, i, SkillPlaceholder)
			}
		}
		for i, tpl := range lt.Closing {
			if strings.TrimSpace(tpl) == "" {
				addf("questions.levels.%s.closing[%d]: question is empty", key, i)
			}
		}
	}
	for i, question := range q.Behavioral {
		if strings.TrimSpace(question) == "" {
			addf("questions.behavioral[%d]: question is empty", i)
		}
	}
	for i, task := range q.Tasks {
		if strings.TrimSpace(task) == "" {
			addf("questions.tasks[%d]: task is empty", i)
		}
	}

	if len(c.Rubric) != RubricSize {
		addf("rubric: expected %d criteria, got %d", RubricSize, len(c.Rubric))
	}
	total := 0
	for i, cr := range c.Rubric {
		if strings.TrimSpace(cr.Name) == "" {
			addf("rubric[%d]: name is empty", i)
		}
		if cr.Weight < 0 {
			addf("rubric[%d]: weight is negative", i)
		}
		total += cr.Weight
	}
	if len(c.Rubric) > 0 && total != 100 {
		addf("rubric: weights sum to %d, expected 100", total)
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.NewValidationError(errors.ErrCodeInvalidCatalog,
		"invalid catalog: "+strings.Join(problems, "; "), nil).
		WithContext("problems", len(problems))
}
