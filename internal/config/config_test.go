package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		DatabaseURL:        "postgres://localhost/caremate",
		GroqAPIKey:         "gsk_test",
		TwilioAccountSID:   "AC123",
		TwilioAuthToken:    "token",
		TwilioWhatsAppFrom: "+14155238886",
		LanguageDetector:   DetectorHeuristic,
		CheckinHour:        9,
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.GroqModel != "llama3-70b-8192" {
		t.Errorf("unexpected default model %s", cfg.GroqModel)
	}
	if cfg.UpstreamTimeout != 30*time.Second {
		t.Errorf("expected 30s upstream timeout, got %s", cfg.UpstreamTimeout)
	}
	if cfg.CheckinHour != 9 {
		t.Errorf("expected default checkin hour 9, got %d", cfg.CheckinHour)
	}
	if cfg.LanguageDetector != DetectorHeuristic {
		t.Errorf("expected heuristic detector default, got %s", cfg.LanguageDetector)
	}
	if cfg.HistoryLimit != 10 {
		t.Errorf("expected default history limit 10, got %d", cfg.HistoryLimit)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("HISTORY_ENABLED", "true")
	t.Setenv("UPSTREAM_TIMEOUT", "10s")
	t.Setenv("CHECKIN_HOUR", "7")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.Port)
	}
	if !cfg.HistoryEnabled {
		t.Error("expected history enabled")
	}
	if cfg.UpstreamTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %s", cfg.UpstreamTimeout)
	}
	if cfg.CheckinHour != 7 {
		t.Errorf("expected checkin hour 7, got %d", cfg.CheckinHour)
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateMissingRequired(t *testing.T) {
	cfg := validConfig()
	cfg.GroqAPIKey = ""
	cfg.DatabaseURL = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing required settings")
	}
	for _, want := range []string{"DATABASE_URL", "GROQ_API_KEY"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to name %s, got %v", want, err)
		}
	}
}

func TestValidateRemoteDetectorNeedsURL(t *testing.T) {
	cfg := validConfig()
	cfg.LanguageDetector = DetectorRemote

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for remote detector without base URL")
	}

	cfg.DetectorBaseURL = "http://detector:5000"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateCheckinHourRange(t *testing.T) {
	cfg := validConfig()
	cfg.CheckinHour = 24

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range checkin hour")
	}
}
