package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "5000" || cfg.Mongo.Database != "hyperlocal_community" {
		t.Fatalf("unexpected defaults: port=%s db=%s", cfg.Port, cfg.Mongo.Database)
	}
	if cfg.Chat.MaxLength != 1000 || cfg.Chat.HistoryLimit != 50 {
		t.Fatalf("unexpected chat defaults: %+v", cfg.Chat)
	}
	if cfg.Redis.Timeout != 3*time.Second {
		t.Fatalf("unexpected redis timeout %s", cfg.Redis.Timeout)
	}
	if cfg.Session.Lifetime != 24*time.Hour {
		t.Fatalf("unexpected session lifetime %s", cfg.Session.Lifetime)
	}
	if cfg.SecretKey != devSecretKey {
		t.Fatalf("expected the development secret in development")
	}
	if cfg.Requests.StrictTransitions || cfg.Seed.DefaultAccounts {
		t.Fatalf("strict transitions and seeding must be off by default")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":                      "8080",
		"STRICT_STATUS_TRANSITIONS": "true",
		"CHAT_MAX_LENGTH":           "200",
		"MONGO_TIMEOUT":             "3s",
		"REDIS_TIMEOUT":             "750ms",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || !cfg.Requests.StrictTransitions || cfg.Chat.MaxLength != 200 || cfg.Mongo.Timeout != 3*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Redis.Timeout != 750*time.Millisecond {
		t.Fatalf("redis timeout override not applied: %s", cfg.Redis.Timeout)
	}
}

func TestLoadWith_ProductionRules(t *testing.T) {
	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "production"})); err == nil {
		t.Fatalf("expected an error without SECRET_KEY in production")
	}

	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                   "production",
		"SECRET_KEY":            "s3cret",
		"SEED_DEFAULT_ACCOUNTS": "true",
	}))
	if err == nil {
		t.Fatalf("expected seeding to be refused in production")
	}
}
