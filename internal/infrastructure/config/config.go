package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// OTP gate modes. "enforced" makes the booking orchestrator consume a booking
// grant minted by OTP verification; "legacy" preserves caller-enforced
// ordering for clients that predate the grant.
const (
	OTPGateEnforced = "enforced"
	OTPGateLegacy   = "legacy"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL,    default=24h"`

	OTPLength int           `env:"OTP_LENGTH, default=6"`
	OTPTTL    time.Duration `env:"OTP_TTL,    default=10m"`
	OTPGate   string        `env:"OTP_GATE,   default=enforced"`
	LockTTL   time.Duration `env:"LOCK_TTL,   default=10m"`

	Postgres PostgresConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL, default=postgres://localhost:5432/booking_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	DB       int    `env:"REDIS_DB,   default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM, default=Amrutam <no-reply@amrutam.example>"`
	Workers  int    `env:"MAIL_WORKERS, default=4"`
}

// OTPGateEnforced reports whether the booking orchestrator must check the
// OTP grant itself.
func (c *Config) OTPGateEnforcedMode() bool {
	return c.OTPGate != OTPGateLegacy
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
