package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ayushmansingh2512/AI-intervewer/internal/access"
	"github.com/ayushmansingh2512/AI-intervewer/internal/middleware"
	"github.com/ayushmansingh2512/AI-intervewer/internal/models"
	"github.com/ayushmansingh2512/AI-intervewer/internal/proctor"
	"github.com/ayushmansingh2512/AI-intervewer/internal/repository"
	"github.com/ayushmansingh2512/AI-intervewer/internal/services"
	"github.com/ayushmansingh2512/AI-intervewer/internal/worker"
)

const defaultQuestionCount = 5

type InterviewHandler struct {
	interviewRepo *repository.InterviewRepo
	companyRepo   *repository.CompanyRepo
	gemini        *services.GeminiService
	email         *services.EmailService
	registry      *proctor.Registry
	redis         *redis.Client
}

func NewInterviewHandler(
	interviewRepo *repository.InterviewRepo,
	companyRepo *repository.CompanyRepo,
	gemini *services.GeminiService,
	email *services.EmailService,
	registry *proctor.Registry,
	redisClient *redis.Client,
) *InterviewHandler {
	return &InterviewHandler{
		interviewRepo: interviewRepo,
		companyRepo:   companyRepo,
		gemini:        gemini,
		email:         email,
		registry:      registry,
		redis:         redisClient,
	}
}

// Create generates questions for the role, persists the interview and sends
// the invite link to the candidate.
func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())

	var req models.CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fieldErrors := make(map[string]string)
	if req.CandidateEmail == "" {
		fieldErrors["candidate_email"] = "Candidate email is required"
	}
	if req.Role == "" {
		fieldErrors["role"] = "Role is required"
	}
	if req.DurationMinutes != nil && *req.DurationMinutes <= 0 {
		fieldErrors["duration_minutes"] = "Duration must be positive"
	}
	if req.DurationMinutes != nil && req.ScheduledStart == nil {
		fieldErrors["scheduled_start_time"] = "A duration requires a scheduled start time"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	count := req.QuestionCount
	if count <= 0 {
		count = defaultQuestionCount
	}

	questions, err := h.gemini.GenerateQuestions(r.Context(), req.Role, count)
	if err != nil {
		log.Printf("Question generation failed for role %q: %v", req.Role, err)
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_FAILED", "Failed to generate interview questions", r))
		return
	}

	var scheduledStart *time.Time
	if req.ScheduledStart != nil {
		t := req.ScheduledStart.UTC()
		scheduledStart = &t
	}

	iv := &models.Interview{
		InterviewID:     uuid.New().String(),
		CompanyID:       ident.ID,
		CandidateEmail:  req.CandidateEmail,
		Role:            req.Role,
		Questions:       questions,
		ScheduledStart:  scheduledStart,
		DurationMinutes: req.DurationMinutes,
	}

	if err := h.interviewRepo.Create(r.Context(), iv); err != nil {
		handleServiceError(w, r, err)
		return
	}

	// Invite delivery must not block interview creation.
	go func() {
		company, err := h.companyRepo.GetByID(context.Background(), ident.ID)
		if err != nil {
			log.Printf("Failed to load company %s for invite email: %v", ident.ID, err)
			return
		}
		if err := h.email.SendInterviewInvite(iv.CandidateEmail, company.CompanyName, iv.InterviewID); err != nil {
			log.Printf("Failed to send invite for interview %s: %v", iv.InterviewID, err)
		}
	}()

	writeJSON(w, http.StatusCreated, iv)
}

func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())

	interviews, err := h.interviewRepo.ListByCompany(r.Context(), ident.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"interviews": interviews})
}

// Get is the candidate's entry point, reached from the invite link. The
// access window is enforced here; outside the window the questions are
// never disclosed.
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "interviewID")

	iv, err := h.interviewRepo.GetByInterviewID(r.Context(), interviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Interview not found", r))
			return
		}
		handleServiceError(w, r, err)
		return
	}

	result := access.Evaluate(time.Now().UTC(), access.Window{
		Start:           iv.ScheduledStart,
		DurationMinutes: iv.DurationMinutes,
	})
	if result.Decision != access.Allowed {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", result.Message(), r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"interview_id":    iv.InterviewID,
		"role":            iv.Role,
		"candidate_email": iv.CandidateEmail,
		"questions":       iv.Questions,
	})
}

// SubmitAnswers stores the candidate's answers, ends the proctoring session
// and queues the evaluation.
func (h *InterviewHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "interviewID")

	iv, err := h.interviewRepo.GetByInterviewID(r.Context(), interviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Interview not found", r))
			return
		}
		handleServiceError(w, r, err)
		return
	}

	var req models.SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if len(req.Answers) != len(iv.Questions) {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", map[string]string{
			"answers": "Answer count must match question count",
		}, r))
		return
	}

	if err := h.interviewRepo.SaveAnswers(r.Context(), interviewID, req.Answers); err != nil {
		handleServiceError(w, r, err)
		return
	}

	// Submission is the explicit end of the interview. Tear down the live
	// proctoring session if one is still streaming.
	h.registry.Close(interviewID)

	if err := worker.Enqueue(r.Context(), h.redis, interviewID); err != nil {
		log.Printf("Failed to enqueue evaluation for interview %s: %v", interviewID, err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Answers submitted. Evaluation is in progress."})
}
