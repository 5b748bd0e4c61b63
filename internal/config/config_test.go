package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SMTP_USER", "pedidos@carta.test")
	t.Setenv("MAIL_FROM", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "pedidos@carta.test", cfg.MailFrom)
}

func TestOrigins(t *testing.T) {
	cfg := &Config{CORSOrigins: " https://a.test , ,https://b.test"}
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Origins())
}
