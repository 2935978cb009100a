package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
		if v == "" {
			os.Unsetenv(k)
		}
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	withEnv(t, map[string]string{"JWT_SECRET": ""})
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	withEnv(t, map[string]string{"JWT_SECRET": "secret", "PORT": "", "JWT_EXPIRES_IN": "", "CORS_ORIGINS": ""})
	defer Set(nil)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 15*time.Minute, cfg.LoginRateWindow)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Equal(t, "@gmail.com", cfg.AdminEmailDomain)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Same(t, cfg, Get())
}

func TestLoad_Overrides(t *testing.T) {
	withEnv(t, map[string]string{
		"JWT_SECRET":     "secret",
		"PORT":           "9090",
		"JWT_EXPIRES_IN": "2h",
		"CORS_ORIGINS":   "http://a.test, http://b.test",
		"ENV":            "production",
	})
	defer Set(nil)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.EmailEnabled = true
	assert.Error(t, cfg.Validate())
	cfg.SMTPHost = "smtp.test"
	assert.NoError(t, cfg.Validate())
}

func TestGet_FallsBackToDefaults(t *testing.T) {
	Set(nil)
	cfg := Get()
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
}
