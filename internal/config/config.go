package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerAddress    string          `yaml:"server_address"`
	WriteTimeout     time.Duration   `yaml:"write_timeout"`
	ShutdownTimeout  time.Duration   `yaml:"shutdown_timeout"`
	PostgresConn     string          `yaml:"postgres_conn"`
	PostgresDatabase string          `yaml:"postgres_database"`
	MigrationsPath   string          `yaml:"migrations_path"`
	JWTSecret        string          `yaml:"jwt_secret"`
	TokenDuration    time.Duration   `yaml:"token_duration"`
	PublicBaseURL    string          `yaml:"public_base_url"`
	Stripe           StripeConfig    `yaml:"stripe"`
	Reconcile        ReconcileConfig `yaml:"reconcile"`
}

type StripeConfig struct {
	SecretKey string `yaml:"secret_key"`
	// ApplicationFee is charged per checkout, in minor units.
	ApplicationFee int64 `yaml:"application_fee"`
}

type ReconcileConfig struct {
	Schedule  string `yaml:"schedule"`
	BatchSize int    `yaml:"batch_size"`
}

// Load reads envFile (a missing file is fine), then the optional YAML file at
// path, then lets environment variables override both.
func Load(path string, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		ServerAddress:   "0.0.0.0:8080",
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		MigrationsPath:  "file://migrations",
		TokenDuration:   24 * time.Hour,
		PublicBaseURL:   "http://localhost:3000",
		Reconcile:       ReconcileConfig{Schedule: "@every 5m", BatchSize: 50},
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.ServerAddress, "SERVER_ADDRESS")
	setString(&c.PostgresConn, "POSTGRES_CONN")
	setString(&c.PostgresDatabase, "POSTGRES_DATABASE")
	setString(&c.MigrationsPath, "MIGRATIONS_PATH")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.PublicBaseURL, "PUBLIC_BASE_URL")
	setString(&c.Stripe.SecretKey, "STRIPE_SECRET_KEY")
	setString(&c.Reconcile.Schedule, "RECONCILE_SCHEDULE")

	for key, dst := range map[string]*time.Duration{
		"TOKEN_DURATION":          &c.TokenDuration,
		"SERVER_WRITE_TIMEOUT":    &c.WriteTimeout,
		"SERVER_SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
	} {
		if err := setDuration(dst, key); err != nil {
			return err
		}
	}

	if v := os.Getenv("STRIPE_APPLICATION_FEE"); v != "" {
		fee, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("STRIPE_APPLICATION_FEE: %w", err)
		}
		c.Stripe.ApplicationFee = fee
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d

	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.PostgresConn == "":
		return errors.New("postgres connection string is required")
	case c.JWTSecret == "":
		return errors.New("jwt secret is required")
	case c.TokenDuration <= 0:
		return errors.New("token duration must be positive")
	case c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0:
		return errors.New("server timeouts must be positive")
	case c.Stripe.SecretKey == "":
		return errors.New("stripe secret key is required")
	case c.Stripe.ApplicationFee < 0:
		return errors.New("application fee can't be negative")
	case c.PublicBaseURL == "":
		return errors.New("public base url is required")
	}

	if c.Reconcile.Schedule != "" {
		if _, err := cron.ParseStandard(c.Reconcile.Schedule); err != nil {
			return fmt.Errorf("reconcile schedule: %w", err)
		}
	}

	return nil
}
