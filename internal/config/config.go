package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration
type Config struct {
	Port       string        `env:"PORT" envDefault:"8080"`
	DBConn     string        `env:"DB_CONN" envDefault:"host=localhost port=5432 user=opslink password=opslink dbname=opslink sslmode=disable"`
	LogLevel   string        `env:"LOG_LEVEL" envDefault:"INFO"`
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SenderEmail  string `env:"SENDER_EMAIL"`
}

// NewConfig loads configuration from environment variables. A missing signing
// secret is a startup failure, not a per-request one.
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	return cfg, nil
}
