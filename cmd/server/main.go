package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayushmansingh2512/AI-intervewer/internal/config"
	"github.com/ayushmansingh2512/AI-intervewer/internal/database"
	"github.com/ayushmansingh2512/AI-intervewer/internal/handlers"
	"github.com/ayushmansingh2512/AI-intervewer/internal/middleware"
	"github.com/ayushmansingh2512/AI-intervewer/internal/proctor"
	"github.com/ayushmansingh2512/AI-intervewer/internal/repository"
	"github.com/ayushmansingh2512/AI-intervewer/internal/router"
	"github.com/ayushmansingh2512/AI-intervewer/internal/services"
	"github.com/ayushmansingh2512/AI-intervewer/internal/worker"
)

func main() {
	log.Println("🚀 Starting AI Interviewer Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	companyRepo := repository.NewCompanyRepo(pool)
	userRepo := repository.NewUserRepo(pool)
	interviewRepo := repository.NewInterviewRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Step 6: Load Detection Cascades ────
	detector, err := proctor.NewCascadeDetector(cfg.FaceCascadePath, cfg.PuplocCascadePath)
	if err != nil {
		log.Fatalf("✗ Cascade loading failed: %v", err)
	}
	log.Println("✓ Face and pupil cascades loaded")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	cvParser := services.NewCVParserService()
	authService := services.NewAuthService(companyRepo, userRepo, redisClient, jwtAuth, emailService)

	registry := proctor.NewRegistry()
	proctorCfg := proctor.Config{
		AbsenceThreshold: time.Duration(cfg.AbsenceThresholdSeconds) * time.Second,
		AlertCooldown:    time.Duration(cfg.AlertCooldownSeconds) * time.Second,
		NotifyTimeout:    time.Duration(cfg.NotifyTimeoutSeconds) * time.Second,
	}

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	interviewHandler := handlers.NewInterviewHandler(interviewRepo, companyRepo, geminiService, emailService, registry, redisClient)
	resultsHandler := handlers.NewResultsHandler(interviewRepo)
	cvHandler := handlers.NewCVHandler(cvParser, geminiService)
	roadmapHandler := handlers.NewRoadmapHandler(geminiService)
	proctorHandler := handlers.NewProctorHandler(interviewRepo, companyRepo, detector, emailService, registry, proctorCfg)

	// ──── Step 7: Start Evaluation Worker Pool ────
	workerPool := worker.NewPool(redisClient, geminiService, interviewRepo, cfg.EvalWorkers)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.EvalWorkers)

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		interviewHandler,
		resultsHandler,
		cvHandler,
		roadmapHandler,
		proctorHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		registry.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ AI Interviewer Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/interviews/{id}/stream", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
