package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/bedfast/access-service/internal/bedfast/access"
)

type Config struct {
	Env      string `yaml:"env" env:"BEDFAST_ENV" env-default:"dev"` // "dev" | "prod"
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	HTTP HTTPConfig `yaml:"http"`
	GRPC GRPCConfig `yaml:"grpc"`

	// Store selects the persistence backend: "memory" or "sqlite".
	Store  string `yaml:"store" env:"BEDFAST_STORE" env-default:"sqlite"`
	DBPath string `yaml:"db_path" env:"BEDFAST_DB_PATH" env-default:"./data/bedfast.db"`

	JWTSecret string `yaml:"jwt_secret" env:"BEDFAST_JWT_SECRET"`

	Access AccessConfig `yaml:"access"`
	Sweep  SweepConfig  `yaml:"sweep"`

	Redis    RedisConfig    `yaml:"redis"`
	SendGrid SendGridConfig `yaml:"sendgrid"`
	Twilio   TwilioConfig   `yaml:"twilio"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"BEDFAST_HTTP_ADDR" env-default:":8080"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"BEDFAST_CORS_ORIGINS" env-separator:","`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"BEDFAST_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type GRPCConfig struct {
	// Addr is empty to disable the gRPC listener.
	Addr string `yaml:"addr" env:"BEDFAST_GRPC_ADDR" env-default:":9090"`
}

type AccessConfig struct {
	OfflineGrace   time.Duration `yaml:"offline_grace" env:"BEDFAST_OFFLINE_GRACE" env-default:"24h"`
	InclusiveStart bool          `yaml:"inclusive_start" env:"BEDFAST_INCLUSIVE_START" env-default:"false"`
	PaymentDelay   time.Duration `yaml:"payment_delay" env:"BEDFAST_PAYMENT_DELAY" env-default:"1500ms"`
}

type SweepConfig struct {
	Spec               string `yaml:"spec" env:"BEDFAST_SWEEP_SPEC" env-default:"@every 1m"`
	EventRetentionDays int    `yaml:"event_retention_days" env:"BEDFAST_EVENT_RETENTION_DAYS" env-default:"30"` // 0 = keep forever
}

type RedisConfig struct {
	// Addr is empty to keep last-sync instants in memory.
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	SyncTTL  time.Duration `yaml:"sync_ttl" env:"BEDFAST_SYNC_TTL" env-default:"720h"`
}

type SendGridConfig struct {
	APIKey    string `yaml:"api_key" env:"SENDGRID_API_KEY"`
	FromEmail string `yaml:"from_email" env:"SENDGRID_FROM_EMAIL"`
	FromName  string `yaml:"from_name" env:"SENDGRID_FROM_NAME" env-default:"BedFast"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `yaml:"auth_token" env:"TWILIO_AUTH_TOKEN"`
	FromNumber string `yaml:"from_number" env:"TWILIO_FROM_NUMBER"`
}

// devJWTSecret signs tokens in dev when no secret is configured.
const devJWTSecret = "bedfast-dev-secret"

// Load reads the optional YAML file at path, then the environment, which
// wins over the file. dotenvFiles (default ".env") are loaded into the
// environment first; missing ones are skipped.
func Load(path string, dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		_ = godotenv.Load(f)
	}

	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env != "dev" && c.Env != "prod" {
		// fail-soft: treat unknown as dev
		c.Env = "dev"
	}

	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	if c.Store != "memory" && c.Store != "sqlite" {
		return fmt.Errorf("BEDFAST_STORE must be memory or sqlite, got %q", c.Store)
	}

	if c.JWTSecret == "" {
		if c.Env == "prod" {
			return errors.New("BEDFAST_JWT_SECRET is required in prod")
		}
		c.JWTSecret = devJWTSecret
	}

	if c.Access.OfflineGrace < 0 {
		return fmt.Errorf("BEDFAST_OFFLINE_GRACE must not be negative, got %s", c.Access.OfflineGrace)
	}
	if c.Sweep.EventRetentionDays < 0 {
		c.Sweep.EventRetentionDays = 0
	}
	return nil
}

// Policy returns the evaluation policy the services run with.
func (c Config) Policy() access.Policy {
	return access.Policy{
		OfflineGrace:   c.Access.OfflineGrace,
		InclusiveStart: c.Access.InclusiveStart,
	}
}
