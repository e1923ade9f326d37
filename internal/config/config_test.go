package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/interviews")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestLoad_ProctoringDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()

	if cfg.FaceCascadePath != "cascade/facefinder" {
		t.Errorf("Expected default face cascade path, got %q", cfg.FaceCascadePath)
	}
	if cfg.PuplocCascadePath != "cascade/puploc" {
		t.Errorf("Expected default puploc cascade path, got %q", cfg.PuplocCascadePath)
	}
	if cfg.AbsenceThresholdSeconds != 10 {
		t.Errorf("Expected absence threshold default 10, got %d", cfg.AbsenceThresholdSeconds)
	}
	if cfg.AlertCooldownSeconds != 60 {
		t.Errorf("Expected alert cooldown default 60, got %d", cfg.AlertCooldownSeconds)
	}
	if cfg.NotifyTimeoutSeconds != 5 {
		t.Errorf("Expected notify timeout default 5, got %d", cfg.NotifyTimeoutSeconds)
	}
	if cfg.EvalWorkers != 3 {
		t.Errorf("Expected 3 evaluation workers by default, got %d", cfg.EvalWorkers)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
}

func TestLoad_ProctoringOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ABSENCE_THRESHOLD_SECONDS", "20")
	t.Setenv("ALERT_COOLDOWN_SECONDS", "120")
	t.Setenv("FACE_CASCADE_PATH", "/opt/cascades/facefinder")
	t.Setenv("EVAL_WORKERS", "8")

	cfg := Load()

	if cfg.AbsenceThresholdSeconds != 20 {
		t.Errorf("Expected absence threshold 20, got %d", cfg.AbsenceThresholdSeconds)
	}
	if cfg.AlertCooldownSeconds != 120 {
		t.Errorf("Expected alert cooldown 120, got %d", cfg.AlertCooldownSeconds)
	}
	if cfg.FaceCascadePath != "/opt/cascades/facefinder" {
		t.Errorf("Expected overridden cascade path, got %q", cfg.FaceCascadePath)
	}
	if cfg.EvalWorkers != 8 {
		t.Errorf("Expected 8 evaluation workers, got %d", cfg.EvalWorkers)
	}
}

func TestLoad_BadIntFallsBackToDefault(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ABSENCE_THRESHOLD_SECONDS", "soon")

	cfg := Load()

	if cfg.AbsenceThresholdSeconds != 10 {
		t.Errorf("Expected non-numeric threshold to fall back to 10, got %d", cfg.AbsenceThresholdSeconds)
	}
}

func TestLoad_PanicsWithoutRequiredVars(t *testing.T) {
	setRequiredEnv(t)
	os.Unsetenv("JWT_SECRET")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when JWT_SECRET is missing")
		}
	}()

	Load()
}
