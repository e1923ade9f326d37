package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/ayushmansingh2512/AI-intervewer/internal/services"
)

const maxCVSize = 10 << 20 // 10 MB

type CVHandler struct {
	parser *services.CVParserService
	gemini *services.GeminiService
}

func NewCVHandler(parser *services.CVParserService, gemini *services.GeminiService) *CVHandler {
	return &CVHandler{parser: parser, gemini: gemini}
}

// Analyze accepts a PDF CV as multipart form data and returns a structured
// profile extracted by Gemini.
func (h *CVHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxCVSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid multipart form", r))
		return
	}

	file, header, err := r.FormFile("cv")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing 'cv' file field", r))
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Only PDF CVs are supported", r))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxCVSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read uploaded file", r))
		return
	}

	text, err := h.parser.ExtractText(data)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("EXTRACTION_FAILED", "Could not extract text from the PDF", r))
		return
	}

	analysis, err := h.gemini.AnalyzeCV(r.Context(), text)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("ANALYSIS_FAILED", "CV analysis failed", r))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(analysis)
}
