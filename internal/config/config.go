package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultAdminTokenSecret = "change-me-admin-token-secret"
)

type Config struct {
	AppEnv   string `mapstructure:"APP_ENV"`
	Port     string `mapstructure:"PORT"`
	GinMode  string `mapstructure:"GIN_MODE"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTTTL            time.Duration `mapstructure:"JWT_TTL"`
	AdminEmail        string        `mapstructure:"ADMIN_EMAIL"`
	AdminPasswordHash string        `mapstructure:"ADMIN_PASSWORD_HASH"`
	AdminTokenSecret  string        `mapstructure:"ADMIN_TOKEN_SECRET"`
	AdminTokenTTL     time.Duration `mapstructure:"ADMIN_TOKEN_TTL"`

	FirebaseProjectID            string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`

	StripeSecretKey     string        `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string        `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeCurrency      string        `mapstructure:"STRIPE_CURRENCY"`
	ClientURL           string        `mapstructure:"CLIENT_URL"`
	PaymentTimeout      time.Duration `mapstructure:"PAYMENT_TIMEOUT"`

	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	AnalyticsCacheTTL time.Duration `mapstructure:"ANALYTICS_CACHE_TTL"`
	RateLimitMax      int           `mapstructure:"RATE_LIMIT_MAX"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `mapstructure:"TWILIO_FROM"`
}

var keys = []string{
	"APP_ENV", "PORT", "GIN_MODE", "LOG_LEVEL", "DATABASE_URL",
	"JWT_SECRET", "JWT_TTL", "ADMIN_EMAIL", "ADMIN_PASSWORD_HASH",
	"ADMIN_TOKEN_SECRET", "ADMIN_TOKEN_TTL", "FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS", "STRIPE_SECRET_KEY",
	"STRIPE_WEBHOOK_SECRET", "STRIPE_CURRENCY", "CLIENT_URL",
	"PAYMENT_TIMEOUT", "REDIS_ADDR", "REDIS_PASSWORD", "ANALYTICS_CACHE_TTL",
	"RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "CORS_ALLOWED_ORIGINS",
	"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_FROM",
}

// Load reads configuration from the environment. Callers load .env first.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PORT", "3000")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "styledeco.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("ADMIN_TOKEN_SECRET", defaultAdminTokenSecret)
	v.SetDefault("ADMIN_TOKEN_TTL", "12h")
	v.SetDefault("STRIPE_CURRENCY", "bdt")
	v.SetDefault("CLIENT_URL", "http://localhost:5173")
	v.SetDefault("PAYMENT_TIMEOUT", "10s")
	v.SetDefault("ANALYTICS_CACHE_TTL", "30s")
	v.SetDefault("RATE_LIMIT_MAX", 300)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.StripeCurrency = strings.ToLower(strings.TrimSpace(cfg.StripeCurrency))
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	cfg.CORSAllowedOrigins = splitList(cfg.CORSAllowedOrigins)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.AdminTokenTTL <= 0 {
		return fmt.Errorf("ADMIN_TOKEN_TTL must be > 0")
	}
	if cfg.PaymentTimeout <= 0 {
		return fmt.Errorf("PAYMENT_TIMEOUT must be > 0")
	}
	if cfg.RateLimitMax < 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be >= 0")
	}
	if cfg.RateLimitMax > 0 && cfg.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0 when rate limiting is enabled")
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPasswordHash == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD_HASH must be set together")
	}
	if cfg.TwilioAccountSID != "" && (cfg.TwilioAuthToken == "" || cfg.TwilioFrom == "") {
		return fmt.Errorf("TWILIO_AUTH_TOKEN and TWILIO_FROM are required with TWILIO_ACCOUNT_SID")
	}

	if cfg.IsProdLike() {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.AdminTokenSecret, defaultAdminTokenSecret) {
			return fmt.Errorf("in prod/release ADMIN_TOKEN_SECRET must be set and not default")
		}
		if cfg.StripeSecretKey == "" {
			return fmt.Errorf("in prod/release STRIPE_SECRET_KEY is required")
		}
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func (c *Config) FirebaseEnabled() bool { return c.FirebaseProjectID != "" }

func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

func (c *Config) TwilioEnabled() bool { return c.TwilioAccountSID != "" }

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

// splitList accepts both a single comma separated value and a list.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
