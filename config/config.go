package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Server Settings
	AppEnv  string `mapstructure:"APP_ENV"`
	Host    string `mapstructure:"APP_HOST"`
	AppPort string `mapstructure:"APP_PORT"`

	// Database
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`
	AutoMigrate      bool   `mapstructure:"DB_AUTO_MIGRATE"`

	// JWT Settings
	JWTSecret            string `mapstructure:"APP_TOKEN"`
	JWTExpirationSeconds int    `mapstructure:"APP_EXPIRE_TIME_SECONDS"`
	ResetTokenTTLMinutes int    `mapstructure:"RESET_TOKEN_TTL_MINUTES"`

	// Storage
	StorageDir     string `mapstructure:"STORAGE_DIR"`
	MaxUploadBytes int    `mapstructure:"MAX_UPLOAD_BYTES"`

	// Email
	EmailQueue    string `mapstructure:"EMAIL_QUEUE"` // memory or redis
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      int    `mapstructure:"SMTP_PORT"`
	SMTPUser      string `mapstructure:"SMTP_USER"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	MailFrom      string `mapstructure:"MAIL_FROM"`

	// Stripe
	StripeAPIKey        string `mapstructure:"STRIPE_API_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeCurrency      string `mapstructure:"STRIPE_CURRENCY"`

	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Cart rows are matched by product only unless this is set.
	CartLookupScopedByUser bool `mapstructure:"CART_LOOKUP_SCOPED_BY_USER"`

	// CORS Settings
	CORSAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS"`
}

var defaults = map[string]interface{}{
	"APP_ENV":                    "development",
	"APP_HOST":                   "0.0.0.0",
	"APP_PORT":                   "3000",
	"DATABASE_URL":               "",
	"POSTGRES_HOST":              "localhost",
	"POSTGRES_PORT":              "5432",
	"POSTGRES_USER":              "postgres",
	"POSTGRES_PASSWORD":          "postgres",
	"POSTGRES_DB":                "flowershop",
	"DB_AUTO_MIGRATE":            true,
	"APP_TOKEN":                  "",
	"APP_EXPIRE_TIME_SECONDS":    3600,
	"RESET_TOKEN_TTL_MINUTES":    30,
	"STORAGE_DIR":                "./storage",
	"MAX_UPLOAD_BYTES":           1 << 20,
	"EMAIL_QUEUE":                "memory",
	"REDIS_HOST":                 "localhost",
	"REDIS_PORT":                 "6379",
	"REDIS_PASSWORD":             "",
	"REDIS_DB":                   0,
	"SMTP_HOST":                  "localhost",
	"SMTP_PORT":                  1025,
	"SMTP_USER":                  "",
	"SMTP_PASSWORD":              "",
	"MAIL_FROM":                  "Flower Shop <noreply@flowershop.local>",
	"STRIPE_API_KEY":             "",
	"STRIPE_WEBHOOK_SECRET":      "",
	"STRIPE_CURRENCY":            "usd",
	"LOG_LEVEL":                  "info",
	"CART_LOOKUP_SCOPED_BY_USER": false,
	"CORS_ALLOW_ORIGINS":         "*",
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("APP_TOKEN must be set")
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationSeconds) * time.Second
}

func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.ResetTokenTTLMinutes) * time.Minute
}

// DSN prefers DATABASE_URL and falls back to the POSTGRES_* keys.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB)
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
