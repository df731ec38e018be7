package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"talent-match/internal/database"
	"talent-match/internal/domain/match"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

var ErrMatchNotFound = errors.New("match not found")

// JobMatchRow is a match joined with the candidate behind the resume.
type JobMatchRow struct {
	match.Match
	CandidateID    uuid.UUID `json:"candidate_id"`
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email"`
	Shortlisted    bool      `json:"shortlisted"`
}

// CandidateMatchRow is a match joined with the job it was scored against.
type CandidateMatchRow struct {
	match.Match
	JobTitle    string `json:"job_title"`
	JobStatus   string `json:"job_status"`
	Shortlisted bool   `json:"shortlisted"`
}

// breakdownDoc is the persisted shape of a score breakdown; the score itself
// lives in its own column.
type breakdownDoc struct {
	Matched       []string `json:"matched"`
	Missing       []string `json:"missing"`
	TotalSkills   int      `json:"totalSkills"`
	MatchedSkills int      `json:"matchedSkills"`
	TotalWeight   int      `json:"totalWeight"`
	MatchedWeight int      `json:"matchedWeight"`
}

type MatchRepository interface {
	Upsert(ctx context.Context, m match.Match) (match.Match, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]JobMatchRow, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]CandidateMatchRow, error)
	MissingByCandidate(ctx context.Context, candidateID uuid.UUID) ([][]string, error)
	BestForEmployer(ctx context.Context, resumeID, employerID uuid.UUID) (CandidateMatchRow, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

func (r *PostgresMatchRepository) Upsert(ctx context.Context, m match.Match) (match.Match, error) {
	breakdown, err := json.Marshal(breakdownDoc{
		Matched:       m.Breakdown.Matched,
		Missing:       m.Breakdown.Missing,
		TotalSkills:   m.Breakdown.TotalSkills,
		MatchedSkills: m.Breakdown.MatchedSkills,
		TotalWeight:   m.Breakdown.TotalWeight,
		MatchedWeight: m.Breakdown.MatchedWeight,
	})
	if err != nil {
		return match.Match{}, fmt.Errorf("encode breakdown: %w", err)
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO matches (id, job_id, resume_id, score, breakdown)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (job_id, resume_id)
		 DO UPDATE SET score = EXCLUDED.score, breakdown = EXCLUDED.breakdown, updated_at = now()
		 RETURNING id, job_id, resume_id, score, breakdown, created_at, updated_at`,
		m.ID, m.JobID, m.ResumeID, m.Score, breakdown,
	)
	return scanMatch(row)
}

func (r *PostgresMatchRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]JobMatchRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.id, m.job_id, m.resume_id, m.score, m.breakdown, m.created_at, m.updated_at,
		        u.id, u.full_name, u.email, (s.id IS NOT NULL)
		 FROM matches m
		 JOIN resumes rs ON rs.id = m.resume_id
		 JOIN users u ON u.id = rs.candidate_id
		 LEFT JOIN shortlists s ON s.job_id = m.job_id AND s.resume_id = m.resume_id
		 WHERE m.job_id = $1
		 ORDER BY m.score DESC, m.created_at ASC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]JobMatchRow, 0)
	for rows.Next() {
		var it JobMatchRow
		var breakdown []byte
		if err := rows.Scan(
			&it.ID, &it.JobID, &it.ResumeID, &it.Score, &breakdown, &it.CreatedAt, &it.UpdatedAt,
			&it.CandidateID, &it.CandidateName, &it.CandidateEmail, &it.Shortlisted,
		); err != nil {
			return nil, err
		}
		if err := decodeBreakdown(breakdown, &it.Match); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatchRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]CandidateMatchRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.id, m.job_id, m.resume_id, m.score, m.breakdown, m.created_at, m.updated_at,
		        j.title, j.status, (s.id IS NOT NULL)
		 FROM matches m
		 JOIN resumes rs ON rs.id = m.resume_id
		 JOIN jobs j ON j.id = m.job_id
		 LEFT JOIN shortlists s ON s.job_id = m.job_id AND s.resume_id = m.resume_id
		 WHERE rs.candidate_id = $1
		 ORDER BY m.score DESC, m.created_at ASC`,
		candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CandidateMatchRow, 0)
	for rows.Next() {
		it, err := scanCandidateMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MissingByCandidate returns the missing-skill list of every match across the
// candidate's resumes, one entry per match.
func (r *PostgresMatchRepository) MissingByCandidate(ctx context.Context, candidateID uuid.UUID) ([][]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.breakdown
		 FROM matches m
		 JOIN resumes rs ON rs.id = m.resume_id
		 WHERE rs.candidate_id = $1
		 ORDER BY m.created_at ASC`,
		candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([][]string, 0)
	for rows.Next() {
		var breakdown []byte
		if err := rows.Scan(&breakdown); err != nil {
			return nil, err
		}
		out = append(out, missingFromBreakdown(breakdown))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// missingFromBreakdown reads the missing-skill names out of a stored
// breakdown. Rows scored before the field existed yield nil.
func missingFromBreakdown(breakdown []byte) []string {
	var missing []string
	for _, v := range gjson.GetBytes(breakdown, "missing").Array() {
		missing = append(missing, v.String())
	}
	return missing
}

// BestForEmployer returns the highest scoring match between the resume and
// any job owned by the employer.
func (r *PostgresMatchRepository) BestForEmployer(ctx context.Context, resumeID, employerID uuid.UUID) (CandidateMatchRow, error) {
	row := r.db.QueryRow(ctx,
		`SELECT m.id, m.job_id, m.resume_id, m.score, m.breakdown, m.created_at, m.updated_at,
		        j.title, j.status, (s.id IS NOT NULL)
		 FROM matches m
		 JOIN jobs j ON j.id = m.job_id
		 LEFT JOIN shortlists s ON s.job_id = m.job_id AND s.resume_id = m.resume_id
		 WHERE m.resume_id = $1 AND j.employer_id = $2
		 ORDER BY m.score DESC
		 LIMIT 1`,
		resumeID, employerID,
	)
	it, err := scanCandidateMatch(row)
	if err != nil {
		if database.IsNoRows(err) {
			return CandidateMatchRow{}, ErrMatchNotFound
		}
		return CandidateMatchRow{}, err
	}
	return it, nil
}

func scanCandidateMatch(row database.Row) (CandidateMatchRow, error) {
	var it CandidateMatchRow
	var breakdown []byte
	if err := row.Scan(
		&it.ID, &it.JobID, &it.ResumeID, &it.Score, &breakdown, &it.CreatedAt, &it.UpdatedAt,
		&it.JobTitle, &it.JobStatus, &it.Shortlisted,
	); err != nil {
		return CandidateMatchRow{}, err
	}
	if err := decodeBreakdown(breakdown, &it.Match); err != nil {
		return CandidateMatchRow{}, err
	}
	return it, nil
}

func scanMatch(row database.Row) (match.Match, error) {
	var m match.Match
	var breakdown []byte
	if err := row.Scan(&m.ID, &m.JobID, &m.ResumeID, &m.Score, &breakdown, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return match.Match{}, ErrMatchNotFound
		}
		return match.Match{}, err
	}
	if err := decodeBreakdown(breakdown, &m); err != nil {
		return match.Match{}, err
	}
	return m, nil
}

func decodeBreakdown(b []byte, m *match.Match) error {
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, &m.Breakdown); err != nil {
		return fmt.Errorf("decode breakdown for match %s: %w", m.ID, err)
	}
	m.Breakdown.Score = m.Score
	return nil
}
