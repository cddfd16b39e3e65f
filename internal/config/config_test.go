package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"jobify-api/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}

	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("", filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MigrationsPath != "file://migrations" || cfg.TokenDuration != 24*time.Hour {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.WriteTimeout != 30*time.Second || cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("unexpected server timeouts: %v %v", cfg.WriteTimeout, cfg.ShutdownTimeout)
	}
	if cfg.Reconcile.Schedule != "@every 5m" || cfg.Reconcile.BatchSize != 50 {
		t.Fatalf("unexpected reconcile defaults: %#v", cfg.Reconcile)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server_address: ":9000"
write_timeout: 45s
postgres_conn: "postgres://yaml"
jwt_secret: "from-yaml"
token_duration: 2h
stripe:
  secret_key: "sk_yaml"
  application_fee: 150
reconcile:
  schedule: "*/10 * * * *"
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("STRIPE_APPLICATION_FEE", "300")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "5s")

	cfg, err := config.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerAddress != ":9000" || cfg.PostgresConn != "postgres://yaml" || cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("yaml values not applied: %#v", cfg)
	}
	if cfg.JWTSecret != "from-env" || cfg.Stripe.ApplicationFee != 300 || cfg.Stripe.SecretKey != "sk_yaml" {
		t.Fatalf("env must override yaml: %#v", cfg)
	}
	if cfg.WriteTimeout != 45*time.Second || cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("server timeouts not applied: %v %v", cfg.WriteTimeout, cfg.ShutdownTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	env := writeFile(t, ".env", "PUBLIC_BASE_URL=https://jobify.example\nTOKEN_DURATION=30m\n")
	t.Cleanup(func() {
		os.Unsetenv("PUBLIC_BASE_URL")
		os.Unsetenv("TOKEN_DURATION")
	})

	cfg, err := config.Load("", env)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PublicBaseURL != "https://jobify.example" || cfg.TokenDuration != 30*time.Minute {
		t.Fatalf(".env values not applied: %#v", cfg)
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	for _, key := range []string{"TOKEN_DURATION", "SERVER_WRITE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "soon")
			if _, err := config.Load("", ""); err == nil {
				t.Fatalf("expected an error for an unparsable %s", key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		WriteTimeout:    time.Minute,
		ShutdownTimeout: time.Minute,
		PostgresConn:    "postgres://localhost",
		JWTSecret:       "secret",
		TokenDuration:   time.Hour,
		PublicBaseURL:   "http://localhost:3000",
		Stripe:          config.StripeConfig{SecretKey: "sk_test"},
		Reconcile:       config.ReconcileConfig{Schedule: "@every 1m"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := map[string]func(c *config.Config){
		"no db":        func(c *config.Config) { c.PostgresConn = "" },
		"no secret":    func(c *config.Config) { c.JWTSecret = "" },
		"no stripe":    func(c *config.Config) { c.Stripe.SecretKey = "" },
		"negative fee": func(c *config.Config) { c.Stripe.ApplicationFee = -1 },
		"bad cron":     func(c *config.Config) { c.Reconcile.Schedule = "every now and then" },
		"no timeout":   func(c *config.Config) { c.ShutdownTimeout = 0 },
	}
	for name, mutate := range cases {
		c := valid
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected Validate to fail", name)
		}
	}
}
