package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ayushmansingh2512/AI-intervewer/internal/handlers"
	"github.com/ayushmansingh2512/AI-intervewer/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	interviewHandler *handlers.InterviewHandler,
	resultsHandler *handlers.ResultsHandler,
	cvHandler *handlers.CVHandler,
	roadmapHandler *handlers.RoadmapHandler,
	proctorHandler *handlers.ProctorHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)

			r.Route("/company", func(r chi.Router) {
				r.Post("/signup", authHandler.SignupCompany)
				r.Post("/login", authHandler.LoginCompany)
				r.Post("/verify-otp", authHandler.VerifyCompanyOTP)
				r.Post("/resend-otp", authHandler.ResendCompanyOTP)
			})

			r.Route("/candidate", func(r chi.Router) {
				r.Post("/signup", authHandler.SignupUser)
				r.Post("/login", authHandler.LoginUser)
				r.Post("/verify-otp", authHandler.VerifyUserOTP)
				r.Post("/resend-otp", authHandler.ResendUserOTP)
			})
		})

		// ──── Interview Routes ────
		r.Route("/interviews", func(r chi.Router) {

			// Company-only management
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Use(middleware.RequireRole(middleware.RoleCompany))
				r.Post("/", interviewHandler.Create)
				r.Get("/", interviewHandler.List)
				r.Get("/{interviewID}/results", resultsHandler.Get)
			})

			// Candidate entry points, reached via the invite link. The
			// access window is enforced inside the handlers.
			r.Get("/{interviewID}", interviewHandler.Get)
			r.Post("/{interviewID}/submit", interviewHandler.SubmitAnswers)
			r.Get("/{interviewID}/stream", proctorHandler.Stream)
		})

		// ──── CV Analysis ────
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/cv/analyze", cvHandler.Analyze)
		})

		// ──── Interview Prep Roadmap (public) ────
		r.Post("/generate-roadmap", roadmapHandler.Generate)
	})

	return r
}
