package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	// ParametersPath points at the JSON file with the normalization ranges.
	ParametersPath string

	// Model selection: "xgboost" or "linear" read ModelPath, "remote" calls ModelURL.
	ModelKind       string
	ModelPath       string
	ModelURL        string
	ModelTimeout    time.Duration
	ModelMaxRetries int

	// Observation history shown alongside predictions.
	HistoryPath            string
	HistoryDisplay         int           // observations returned by default
	HistoryMax             int           // max observations kept (0 = unlimited)
	HistoryRefreshInterval time.Duration // 0 = load once at startup

	UploadMaxBytes int

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var modelKinds = []string{"xgboost", "linear", "remote"}

// Load reads configuration from environment with sensible defaults. A .env
// file in the working directory is applied first if present; variables
// already set in the environment win.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.ParametersPath = getenvDefault("PARAMETERS_PATH", "parameters.json")

	cfg.ModelKind = strings.ToLower(getenvDefault("MODEL_KIND", "xgboost"))
	if !contains(modelKinds, cfg.ModelKind) {
		return nil, fmt.Errorf("invalid MODEL_KIND %q: expected one of %s", cfg.ModelKind, strings.Join(modelKinds, ", "))
	}
	cfg.ModelPath = getenvDefault("MODEL_PATH", "final_temperature_predictor.json")
	cfg.ModelURL = os.Getenv("MODEL_URL")
	if cfg.ModelKind == "remote" && cfg.ModelURL == "" {
		return nil, fmt.Errorf("MODEL_URL is required when MODEL_KIND=remote")
	}
	if cfg.ModelTimeout, err = getenvDuration("MODEL_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.ModelMaxRetries = getenvInt("MODEL_MAX_RETRIES", 0)
	if cfg.ModelMaxRetries < 0 {
		return nil, fmt.Errorf("invalid MODEL_MAX_RETRIES: must not be negative")
	}

	cfg.HistoryPath = getenvDefault("HISTORY_PATH", "data/data_weather.json")
	cfg.HistoryDisplay = getenvInt("HISTORY_DISPLAY", 3)
	cfg.HistoryMax = getenvInt("HISTORY_MAX", 0)
	if cfg.HistoryRefreshInterval, err = getenvDuration("HISTORY_REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}

	cfg.UploadMaxBytes = getenvInt("UPLOAD_MAX_BYTES", 10*1024*1024)

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogPath = os.Getenv("LOG_PATH")
	cfg.LogMaxSizeMB = getenvInt("LOG_MAX_SIZE_MB", 100)
	cfg.LogMaxBackups = getenvInt("LOG_MAX_BACKUPS", 3)
	cfg.LogMaxAgeDays = getenvInt("LOG_MAX_AGE_DAYS", 28)
	cfg.LogCompress = getenvBool("LOG_COMPRESS", false)

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
