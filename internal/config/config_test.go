package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	m, err := NewManager()
	require.NoError(t, err)
	return m
}

func TestNewManager_Defaults(t *testing.T) {
	m := newTestManager(t)
	cfg := m.GetConfig()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Review.Backend)
	assert.Equal(t, "./data/reviews.db", cfg.Review.SQLitePath)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.RxNorm.Enabled)
	assert.Equal(t, "https://rxnav.nlm.nih.gov", cfg.RxNorm.BaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestManager_EnvironmentOverride(t *testing.T) {
	t.Setenv("DOSE_SAFETY_SERVER_PORT", "9090")
	t.Setenv("DOSE_SAFETY_REVIEW_BACKEND", "postgres")
	t.Setenv("DOSE_SAFETY_LOGGING_LEVEL", "debug")

	m := newTestManager(t)
	cfg := m.GetConfig()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Review.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestManager_Validate(t *testing.T) {
	m := newTestManager(t)
	assert.NoError(t, m.Validate())
}

func TestManager_Validate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Manager)
	}{
		{"bad port", func(m *Manager) { m.config.Server.Port = 0 }},
		{"bad backend", func(m *Manager) { m.config.Review.Backend = "memory" }},
		{"sqlite without path", func(m *Manager) { m.config.Review.SQLitePath = "" }},
		{"postgres without host", func(m *Manager) {
			m.config.Review.Backend = "postgres"
			m.config.Database.Host = ""
		}},
		{"cache enabled without url", func(m *Manager) {
			m.config.Cache.Enabled = true
			m.config.Cache.RedisURL = ""
		}},
		{"bad log level", func(m *Manager) { m.config.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			tt.mutate(m)
			assert.Error(t, m.Validate())
		})
	}
}
