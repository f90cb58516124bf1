package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"hrintel/internal/errors"
	"hrintel/internal/types"
)

const defaultListLimit = 50

// SaveAssessment stores a finished assessment. Saving the same id twice
// replaces the earlier row.
func (s *Store) SaveAssessment(ctx context.Context, r *types.AssessmentResult) error {
	skills, err := json.Marshal(nonNil(r.Skills))
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "failed to encode skills", err)
	}
	questions, err := json.Marshal(nonNil(r.Questions))
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "failed to encode questions", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO assessments (id, candidate_name, role, level, skills, questions, focus, technical_weight, insight, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  candidate_name = excluded.candidate_name,
  role = excluded.role,
  level = excluded.level,
  skills = excluded.skills,
  questions = excluded.questions,
  focus = excluded.focus,
  technical_weight = excluded.technical_weight,
  insight = excluded.insight;
`,
		r.ID, r.CandidateName, r.Role, string(r.Level), string(skills), string(questions),
		r.Summary.Focus, r.Summary.TechnicalWeight, r.Summary.Insight, formatTime(r.CreatedAt),
	)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to save assessment", err).
			WithContext("id", r.ID)
	}
	return nil
}

// ListAssessments returns stored assessments, newest first.
func (s *Store) ListAssessments(ctx context.Context, limit int) (types.AssessmentHistory, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, candidate_name, role, level, skills, questions, focus, technical_weight, insight, created_at
FROM assessments
ORDER BY created_at DESC, id
LIMIT ?;
`, limit)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to list assessments", err)
	}
	defer rows.Close()

	out := types.AssessmentHistory{}
	for rows.Next() {
		rec, err := scanAssessment(rows)
		if err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to read assessment", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to list assessments", err)
	}
	return out, nil
}

// GetAssessment returns one stored assessment.
func (s *Store) GetAssessment(ctx context.Context, id string) (types.AssessmentRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, candidate_name, role, level, skills, questions, focus, technical_weight, insight, created_at
FROM assessments WHERE id = ?;
`, id)
	rec, err := scanAssessment(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return types.AssessmentRecord{}, errors.NewNotFoundError(errors.ErrCodeNotFound, "assessment not found", ErrNotFound).
			WithContext("id", id)
	}
	if err != nil {
		return types.AssessmentRecord{}, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to read assessment", err).
			WithContext("id", id)
	}
	return rec, nil
}

// ClearAssessments deletes all stored assessments and reports how many.
func (s *Store) ClearAssessments(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assessments;`)
	if err != nil {
		return 0, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to clear assessments", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAssessment(sc scanner) (types.AssessmentRecord, error) {
	var (
		rec                types.AssessmentRecord
		level, created     string
		skillsJS, questsJS string
	)
	if err := sc.Scan(&rec.ID, &rec.CandidateName, &rec.Role, &level, &skillsJS, &questsJS,
		&rec.Focus, &rec.TechnicalWeight, &rec.Insight, &created); err != nil {
		return rec, err
	}
	rec.Level = types.SeniorityLevel(level)
	rec.CreatedAt = parseTime(created)
	if err := json.Unmarshal([]byte(skillsJS), &rec.Skills); err != nil {
		return rec, err
	}
	if err := json.Unmarshal([]byte(questsJS), &rec.Questions); err != nil {
		return rec, err
	}
	return rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
