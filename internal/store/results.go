package store

import (
	"context"
	"strings"
	"time"

	"hrintel/internal/errors"
	"hrintel/internal/types"
)

// DefaultTopLimit is the leaderboard size used when no limit is given.
const DefaultTopLimit = 10

// SaveResult stores a scored candidate and returns it with id and creation
// time filled in.
func (s *Store) SaveResult(ctx context.Context, r types.CandidateResult) (types.CandidateResult, error) {
	if strings.TrimSpace(r.CandidateName) == "" {
		return r, errors.NewValidationError(errors.ErrCodeInvalidRequest, "candidate name is required", nil)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO candidate_results (jd_title, candidate_name, technical, problem_solving, system_design, communication, total_score, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`,
		r.JDTitle, r.CandidateName, r.Technical, r.ProblemSolving, r.SystemDesign, r.Communication,
		r.TotalScore, formatTime(r.CreatedAt),
	)
	if err != nil {
		return r, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to save candidate result", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return r, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to read result id", err)
	}
	r.ID = id
	return r, nil
}

// TopCandidates returns the highest scoring candidates, best first.
func (s *Store) TopCandidates(ctx context.Context, limit int) (types.ResultList, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	return s.queryResults(ctx, `
SELECT id, jd_title, candidate_name, technical, problem_solving, system_design, communication, total_score, created_at
FROM candidate_results
ORDER BY total_score DESC, id ASC
LIMIT ?;
`, limit)
}

// AllResults returns every stored result, newest first.
func (s *Store) AllResults(ctx context.Context) (types.ResultList, error) {
	return s.queryResults(ctx, `
SELECT id, jd_title, candidate_name, technical, problem_solving, system_design, communication, total_score, created_at
FROM candidate_results
ORDER BY created_at DESC, id DESC;
`)
}

// ClearResults deletes every stored result and reports how many.
func (s *Store) ClearResults(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candidate_results;`)
	if err != nil {
		return 0, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to clear results", err)
	}
	return res.RowsAffected()
}

func (s *Store) queryResults(ctx context.Context, query string, args ...any) (types.ResultList, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to query results", err)
	}
	defer rows.Close()

	out := types.ResultList{}
	for rows.Next() {
		var (
			r       types.CandidateResult
			created string
		)
		if err := rows.Scan(&r.ID, &r.JDTitle, &r.CandidateName, &r.Technical, &r.ProblemSolving,
			&r.SystemDesign, &r.Communication, &r.TotalScore, &created); err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to read result", err)
		}
		r.CreatedAt = parseTime(created)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to query results", err)
	}
	return out, nil
}
