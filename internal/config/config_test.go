package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, "bdt", cfg.StripeCurrency)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.FirebaseEnabled())
}

func TestLoad_ParsesEnvironment(t *testing.T) {
	t.Setenv("PAYMENT_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_MAX", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ADMIN_EMAIL", " Admin@StyleDeco.com ")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$hash")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, 10, cfg.RateLimitMax)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "admin@styledeco.com", cfg.AdminEmail)
}

func TestLoad_RejectsInvalidDuration(t *testing.T) {
	t.Setenv("PAYMENT_TIMEOUT", "0s")

	_, err := load(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYMENT_TIMEOUT")
}

func TestLoad_AdminCredentialsMustBePaired(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@styledeco.com")

	_, err := load(viper.New())
	require.Error(t, err)
}

func TestLoad_ProdRejectsDefaultSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_x")

	_, err := load(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("ADMIN_TOKEN_SECRET", "another-real-secret")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
}
