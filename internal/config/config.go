package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Server   ServerConfig
	Gateway  GatewayConfig
	Sweep    SweepConfig
	Slack    SlackConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds token verification settings. Tokens are issued by the
// identity service; this core only validates them.
type JWTConfig struct {
	Secret string //nolint:gosec // G117: JWT signing secret config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// GatewayConfig holds payment gateway settings.
type GatewayConfig struct {
	APIKey        string //nolint:gosec // G117: gateway credential config
	WebhookSecret string //nolint:gosec // G117: webhook signing secret config
	BaseURL       string
	Timeout       time.Duration
}

// SweepConfig holds lease expiry sweep settings.
type SweepConfig struct {
	Interval time.Duration
}

// SlackConfig holds the optional support-chat forwarding settings.
type SlackConfig struct {
	BotToken       string
	SupportChannel string
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, webhook secret, DB password) must be
// set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("RENTORA_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("RENTORA_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("RENTORA_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("RENTORA_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("RENTORA_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	gatewayTimeout, err := getEnvDuration("RENTORA_GATEWAY_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	sweepInterval, err := getEnvDuration("RENTORA_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("RENTORA_CORS_ORIGINS", []string{"http://localhost:3000"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("RENTORA_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("RENTORA_DB_USER", "rentora"),
			Password: getEnv("RENTORA_DB_PASSWORD", ""),
			DBName:   getEnv("RENTORA_DB_NAME", "rentora_dev"),
			SSLMode:  getEnv("RENTORA_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("RENTORA_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("RENTORA_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("RENTORA_JWT_SECRET", ""),
		},
		Server: ServerConfig{
			Addr:         getEnv("RENTORA_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		Gateway: GatewayConfig{
			APIKey:        getEnv("RENTORA_GATEWAY_API_KEY", ""),
			WebhookSecret: getEnv("RENTORA_GATEWAY_WEBHOOK_SECRET", ""),
			BaseURL:       getEnv("RENTORA_GATEWAY_BASE_URL", "https://api.stripe.com"),
			Timeout:       gatewayTimeout,
		},
		Sweep: SweepConfig{
			Interval: sweepInterval,
		},
		Slack: SlackConfig{
			BotToken:       getEnv("RENTORA_SLACK_BOT_TOKEN", ""),
			SupportChannel: getEnv("RENTORA_SLACK_SUPPORT_CHANNEL", ""),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("RENTORA_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("RENTORA_JWT_SECRET must be at least 32 characters")
	}

	if c.Gateway.WebhookSecret == "" {
		return errors.New("RENTORA_GATEWAY_WEBHOOK_SECRET is required")
	}

	if c.Database.SSLMode == "disable" {
		log.Warn().Msg("RENTORA_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("RENTORA_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("RENTORA_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("RENTORA_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("RENTORA_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("RENTORA_GATEWAY_TIMEOUT must be positive, got %s", c.Gateway.Timeout)
	}
	if c.Sweep.Interval < time.Second {
		return fmt.Errorf("RENTORA_SWEEP_INTERVAL must be at least 1s, got %s", c.Sweep.Interval)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
