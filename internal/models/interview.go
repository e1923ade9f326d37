package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Interview is one scheduled interview attempt. InterviewID is the opaque
// session key embedded in the candidate's invite link; ScheduledStart and
// DurationMinutes form the optional access window (both stored without a
// zone and interpreted as UTC).
type Interview struct {
	ID              uuid.UUID  `json:"id"`
	InterviewID     string     `json:"interview_id"`
	CompanyID       uuid.UUID  `json:"company_id"`
	CandidateEmail  string     `json:"candidate_email"`
	Role            string     `json:"role"`
	Questions       []string   `json:"questions"`
	ScheduledStart  *time.Time `json:"scheduled_start_time"`
	DurationMinutes *int       `json:"duration_minutes"`
	CreatedAt       time.Time  `json:"created_at"`
}

type CreateInterviewRequest struct {
	CandidateEmail  string     `json:"candidate_email"`
	Role            string     `json:"role"`
	QuestionCount   int        `json:"question_count"`
	ScheduledStart  *time.Time `json:"scheduled_start_time"`
	DurationMinutes *int       `json:"duration_minutes"`
}

type SubmitAnswersRequest struct {
	Answers []string `json:"answers"`
}

// AnswerSet is a candidate's submission for one interview.
type AnswerSet struct {
	InterviewID string    `json:"interview_id"`
	Answers     []string  `json:"answers"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Evaluation is one scored answer, produced by the evaluation worker.
type Evaluation struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

type InterviewResults struct {
	Questions  []string        `json:"questions"`
	Answers    []string        `json:"answers"`
	Evaluation json.RawMessage `json:"evaluation"`
}
