package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayushmansingh2512/AI-intervewer/internal/models"
	"github.com/ayushmansingh2512/AI-intervewer/internal/services"
)

type RoadmapHandler struct {
	gemini *services.GeminiService
}

func NewRoadmapHandler(gemini *services.GeminiService) *RoadmapHandler {
	return &RoadmapHandler{gemini: gemini}
}

// Generate returns a structured interview preparation roadmap for the
// requested goal.
func (h *RoadmapHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.RoadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", map[string]string{
			"query": "Query is required",
		}, r))
		return
	}

	roadmap, err := h.gemini.GenerateRoadmap(r.Context(), req.Query)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_FAILED", "Failed to generate roadmap", r))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(roadmap)
}
