package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/ayushmansingh2512/AI-intervewer/internal/middleware"
	"github.com/ayushmansingh2512/AI-intervewer/internal/models"
	"github.com/ayushmansingh2512/AI-intervewer/internal/repository"
)

type ResultsHandler struct {
	interviewRepo *repository.InterviewRepo
}

func NewResultsHandler(interviewRepo *repository.InterviewRepo) *ResultsHandler {
	return &ResultsHandler{interviewRepo: interviewRepo}
}

// Get returns the candidate's answers and their evaluation. Only the company
// that owns the interview may read results.
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
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

	if iv.CompanyID != ident.ID {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "This interview belongs to another company", r))
		return
	}

	answerSet, err := h.interviewRepo.GetAnswers(r.Context(), interviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No answers submitted for this interview yet", r))
			return
		}
		handleServiceError(w, r, err)
		return
	}

	results := models.InterviewResults{
		Questions: iv.Questions,
		Answers:   answerSet.Answers,
	}

	evaluation, err := h.interviewRepo.GetEvaluation(r.Context(), interviewID)
	if err == nil && len(evaluation) > 0 {
		results.Evaluation = evaluation
		writeJSON(w, http.StatusOK, results)
		return
	}

	// Answers exist but the worker has not finished scoring them.
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": results.Questions,
		"answers":   results.Answers,
		"status":    "evaluation_pending",
	})
}
