package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"

	"github.com/ayushmansingh2512/AI-intervewer/internal/access"
	"github.com/ayushmansingh2512/AI-intervewer/internal/proctor"
	"github.com/ayushmansingh2512/AI-intervewer/internal/repository"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS enforced at the HTTP layer
	},
}

type ProctorHandler struct {
	interviewRepo *repository.InterviewRepo
	companyRepo   *repository.CompanyRepo
	detector      proctor.Detector
	sink          proctor.Sink
	registry      *proctor.Registry
	cfg           proctor.Config
}

func NewProctorHandler(
	interviewRepo *repository.InterviewRepo,
	companyRepo *repository.CompanyRepo,
	detector proctor.Detector,
	sink proctor.Sink,
	registry *proctor.Registry,
	cfg proctor.Config,
) *ProctorHandler {
	return &ProctorHandler{
		interviewRepo: interviewRepo,
		companyRepo:   companyRepo,
		detector:      detector,
		sink:          sink,
		registry:      registry,
		cfg:           cfg,
	}
}

// Stream upgrades the candidate's connection and runs the proctoring loop
// until disconnect, an "end" message, or answer submission. Everything that
// can be rejected is rejected before the upgrade, while a plain HTTP status
// can still be written.
func (h *ProctorHandler) Stream(w http.ResponseWriter, r *http.Request) {
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

	company, err := h.companyRepo.GetByID(r.Context(), iv.CompanyID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed for interview %s: %v", interviewID, err)
		return
	}

	sess := proctor.NewSession(
		interviewID, iv.CandidateEmail, company.Email,
		h.detector, h.sink, h.cfg, time.Now().UTC(),
	)
	// The connection must be attached before registration: once the key is
	// visible, a submit-path Close has to reach it.
	sess.Attach(conn)

	if err := h.registry.Register(interviewID, sess); err != nil {
		// A session is already streaming for this interview. The original
		// connection wins; this one is told why and closed.
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session already active"),
			time.Now().Add(time.Second),
		)
		conn.Close()
		return
	}

	defer func() {
		h.registry.Unregister(interviewID)
		conn.Close()
		log.Printf("Proctoring session for interview %s ended", interviewID)
	}()

	log.Printf("Proctoring session for interview %s started", interviewID)
	sess.Run(r.Context())
}
