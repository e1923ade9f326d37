package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayushmansingh2512/AI-intervewer/internal/models"
)

type InterviewRepo struct {
	pool *pgxpool.Pool
}

func NewInterviewRepo(pool *pgxpool.Pool) *InterviewRepo {
	return &InterviewRepo{pool: pool}
}

func (r *InterviewRepo) Create(ctx context.Context, iv *models.Interview) error {
	questionsJSON, err := json.Marshal(iv.Questions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO interviews (id, interview_id, company_id, candidate_email, role, questions, scheduled_start_time, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	iv.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		iv.ID, iv.InterviewID, iv.CompanyID, iv.CandidateEmail, iv.Role,
		questionsJSON, iv.ScheduledStart, iv.DurationMinutes,
	).Scan(&iv.CreatedAt)
}

func (r *InterviewRepo) GetByInterviewID(ctx context.Context, interviewID string) (*models.Interview, error) {
	iv := &models.Interview{}
	var questionsJSON []byte
	var scheduledStart pgtype.Timestamp

	query := `SELECT id, interview_id, company_id, candidate_email, role, questions, scheduled_start_time, duration_minutes, created_at
		FROM interviews WHERE interview_id = $1`

	err := r.pool.QueryRow(ctx, query, interviewID).Scan(
		&iv.ID, &iv.InterviewID, &iv.CompanyID, &iv.CandidateEmail, &iv.Role,
		&questionsJSON, &scheduledStart, &iv.DurationMinutes, &iv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(questionsJSON, &iv.Questions); err != nil {
		return nil, err
	}
	iv.ScheduledStart = naiveUTC(scheduledStart)

	return iv, nil
}

func (r *InterviewRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Interview, error) {
	query := `SELECT id, interview_id, company_id, candidate_email, role, questions, scheduled_start_time, duration_minutes, created_at
		FROM interviews WHERE company_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interviews := make([]models.Interview, 0)
	for rows.Next() {
		var iv models.Interview
		var questionsJSON []byte
		var scheduledStart pgtype.Timestamp

		if err := rows.Scan(
			&iv.ID, &iv.InterviewID, &iv.CompanyID, &iv.CandidateEmail, &iv.Role,
			&questionsJSON, &scheduledStart, &iv.DurationMinutes, &iv.CreatedAt,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(questionsJSON, &iv.Questions); err != nil {
			return nil, err
		}
		iv.ScheduledStart = naiveUTC(scheduledStart)

		interviews = append(interviews, iv)
	}

	return interviews, rows.Err()
}

func (r *InterviewRepo) SaveAnswers(ctx context.Context, interviewID string, answers []string) error {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO answers (interview_id, answers, submitted_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (interview_id) DO UPDATE
		SET answers = EXCLUDED.answers, submitted_at = NOW()
	`, interviewID, answersJSON)
	return err
}

func (r *InterviewRepo) GetAnswers(ctx context.Context, interviewID string) (*models.AnswerSet, error) {
	set := &models.AnswerSet{InterviewID: interviewID}
	var answersJSON []byte

	err := r.pool.QueryRow(ctx,
		"SELECT answers, submitted_at FROM answers WHERE interview_id = $1", interviewID,
	).Scan(&answersJSON, &set.SubmittedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(answersJSON, &set.Answers); err != nil {
		return nil, err
	}
	return set, nil
}

func (r *InterviewRepo) SaveEvaluation(ctx context.Context, interviewID string, evaluation json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE answers SET evaluation = $1 WHERE interview_id = $2",
		[]byte(evaluation), interviewID,
	)
	return err
}

func (r *InterviewRepo) GetEvaluation(ctx context.Context, interviewID string) (json.RawMessage, error) {
	var evaluation []byte
	err := r.pool.QueryRow(ctx,
		"SELECT evaluation FROM answers WHERE interview_id = $1", interviewID,
	).Scan(&evaluation)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(evaluation), nil
}

// naiveUTC converts a zone-less stored timestamp to a UTC instant. A
// persisted timestamp without zone information is always interpreted as
// UTC, never local time.
func naiveUTC(ts pgtype.Timestamp) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return &t
}
