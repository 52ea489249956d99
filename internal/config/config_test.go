package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "PARAMETERS_PATH", "MODEL_KIND", "MODEL_PATH", "MODEL_URL", "MODEL_TIMEOUT",
	"MODEL_MAX_RETRIES", "HISTORY_PATH", "HISTORY_DISPLAY", "HISTORY_MAX",
	"HISTORY_REFRESH_INTERVAL", "UPLOAD_MAX_BYTES", "LOG_LEVEL", "LOG_PATH", "LOG_COMPRESS",
}

// clearEnv blanks every key Load reads; empty counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	chdirForTest(t, t.TempDir())
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "parameters.json", cfg.ParametersPath)
	assert.Equal(t, "xgboost", cfg.ModelKind)
	assert.Equal(t, 10*time.Second, cfg.ModelTimeout)
	assert.Equal(t, 0, cfg.ModelMaxRetries)
	assert.Equal(t, 3, cfg.HistoryDisplay)
	assert.Equal(t, time.Duration(0), cfg.HistoryRefreshInterval)
	assert.Equal(t, 10*1024*1024, cfg.UploadMaxBytes)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirForTest(t, t.TempDir())
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("MODEL_KIND", "Remote")
	t.Setenv("MODEL_URL", "http://model:8500/predict")
	t.Setenv("MODEL_MAX_RETRIES", "2")
	t.Setenv("HISTORY_REFRESH_INTERVAL", "5m")
	t.Setenv("LOG_COMPRESS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "remote", cfg.ModelKind)
	assert.Equal(t, "http://model:8500/predict", cfg.ModelURL)
	assert.Equal(t, 2, cfg.ModelMaxRetries)
	assert.Equal(t, 5*time.Minute, cfg.HistoryRefreshInterval)
	assert.True(t, cfg.LogCompress)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown model kind", map[string]string{"MODEL_KIND": "pickle"}},
		{"remote without url", map[string]string{"MODEL_KIND": "remote"}},
		{"bad timeout", map[string]string{"MODEL_TIMEOUT": "soon"}},
		{"negative retries", map[string]string{"MODEL_MAX_RETRIES": "-1"}},
		{"bad refresh interval", map[string]string{"HISTORY_REFRESH_INTERVAL": "hourly"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chdirForTest(t, t.TempDir())
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

// chdirForTest changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
