package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		ReviewBoard: ReviewBoardConfig{URL: "https://rb.example.com/", Username: "jenkins"},
		Database:    DBConfig{Driver: "sqlite"},
		Polling:     PollingConfig{Interval: time.Minute},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "Valid config",
			mutate:  func(_ *Config) {},
			wantErr: false,
		},
		{
			name:    "Missing review board URL",
			mutate:  func(c *Config) { c.ReviewBoard.URL = "" },
			wantErr: true,
		},
		{
			name:    "Relative review board URL",
			mutate:  func(c *Config) { c.ReviewBoard.URL = "rb.example.com" },
			wantErr: true,
		},
		{
			name:    "Missing username",
			mutate:  func(c *Config) { c.ReviewBoard.Username = "" },
			wantErr: true,
		},
		{
			name:    "Unsupported driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: true,
		},
		{
			name:    "Postgres driver",
			mutate:  func(c *Config) { c.Database.Driver = "postgres" },
			wantErr: false,
		},
		{
			name:    "Zero poll interval",
			mutate:  func(c *Config) { c.Polling.Interval = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, "", normalizeBaseURL(" "))
	assert.Equal(t, "https://rb/", normalizeBaseURL("https://rb"))
	assert.Equal(t, "https://rb/", normalizeBaseURL("https://rb/"))
}

func TestParsePollers(t *testing.T) {
	doc := []byte(`
pollers:
  - name: core
    target_job: core-verify
    lookback_hours: "6"
    repository_id: 3
  - target_job: docs-verify
    restrict_to_user: false
    disable_advisory_comment: true
`)
	pollers, err := ParsePollers(doc)
	require.NoError(t, err)
	require.Len(t, pollers, 2)

	assert.Equal(t, "core", pollers[0].Name)
	assert.Equal(t, "6", pollers[0].LookbackHours)
	assert.Equal(t, int64(3), pollers[0].RepositoryID)
	assert.True(t, pollers[0].RestrictToUser)
	assert.False(t, pollers[0].DisableAdvisoryComment)

	assert.Equal(t, "docs-verify", pollers[1].Name)
	assert.Equal(t, "", pollers[1].LookbackHours)
	assert.Equal(t, int64(-1), pollers[1].RepositoryID)
	assert.False(t, pollers[1].RestrictToUser)
	assert.True(t, pollers[1].DisableAdvisoryComment)
}

func TestParsePollers_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{name: "Broken YAML", doc: "pollers: [", wantErr: ErrConfigParsing},
		{name: "Empty list", doc: "pollers: []", wantErr: ErrConfigParsing},
		{name: "Missing job", doc: "pollers:\n  - name: x\n", wantErr: ErrInvalidPoller},
		{name: "Bad repository", doc: "pollers:\n  - target_job: x\n    repository_id: -5\n", wantErr: ErrInvalidPoller},
		{name: "Duplicate name", doc: "pollers:\n  - target_job: x\n  - target_job: x\n", wantErr: ErrInvalidPoller},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePollers([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestLoadPollers_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pollers.yml")
	require.NoError(t, os.WriteFile(path, []byte("pollers:\n  - target_job: verify\n"), 0o600))

	pollers, err := LoadPollers(path)
	require.NoError(t, err)
	require.Len(t, pollers, 1)
	assert.Equal(t, "verify", pollers[0].Name)
}

func TestLoadPollers_FallsBackToEnv(t *testing.T) {
	t.Setenv("POLL_TARGET_JOB", "env-verify")
	t.Setenv("POLL_REPOSITORY_ID", "4")

	pollers, err := LoadPollers(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
	require.Len(t, pollers, 1)
	assert.Equal(t, "env-verify", pollers[0].Name)
	assert.Equal(t, int64(4), pollers[0].RepositoryID)
	assert.Equal(t, "1", pollers[0].LookbackHours)
}
