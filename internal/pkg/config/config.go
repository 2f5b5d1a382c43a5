package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const devSecretKey = "dev-secret-key-change-in-production"

type Config struct {
	Port       string `env:"PORT,        default=5000"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	AppName    string `env:"APP_NAME,    default=Hyperlocal Community"`
	AppVersion string `env:"APP_VERSION, default=dev"`

	// SecretKey signs session CSRF tokens and bearer tokens.
	SecretKey string        `env:"SECRET_KEY"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	// MaxContentLength is an echo BodyLimit value such as "16M".
	MaxContentLength string `env:"MAX_CONTENT_LENGTH, default=16M"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Session   SessionConfig
	Chat      ChatConfig
	Requests  RequestsConfig
	Seed      SeedConfig
	Limits    LimitsConfig
	Scheduler SchedulerConfig
	Mail      MailConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=hyperlocal_community"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr    string        `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int           `env:"REDIS_DB,      default=0"`
	Timeout time.Duration `env:"REDIS_TIMEOUT, default=3s"`
}

type SessionConfig struct {
	Lifetime     time.Duration `env:"SESSION_LIFETIME,      default=24h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME,   default=community_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
}

type ChatConfig struct {
	MaxLength     int `env:"CHAT_MAX_LENGTH,      default=1000"`
	HistoryLimit  int `env:"CHAT_HISTORY_LIMIT,   default=50"`
	RatePerMinute int `env:"CHAT_RATE_PER_MINUTE, default=10"`
}

type RequestsConfig struct {
	StrictTransitions bool `env:"STRICT_STATUS_TRANSITIONS, default=false"`
}

// SeedConfig controls the well-known development accounts. Never enable
// SEED_DEFAULT_ACCOUNTS in production.
type SeedConfig struct {
	DefaultAccounts   bool   `env:"SEED_DEFAULT_ACCOUNTS,  default=false"`
	SecretaryEmail    string `env:"SEED_SECRETARY_EMAIL,    default=secretary@community.com"`
	SecretaryPassword string `env:"SEED_SECRETARY_PASSWORD, default=secretary123"`
	ResidentEmail     string `env:"SEED_RESIDENT_EMAIL,     default=resident@community.com"`
	ResidentPassword  string `env:"SEED_RESIDENT_PASSWORD,  default=resident123"`
}

type LimitsConfig struct {
	LoginPerMinute float64 `env:"LOGIN_RATE_PER_MINUTE, default=10"`
}

type SchedulerConfig struct {
	StatsSpec       string `env:"STATS_REFRESH_SPEC, default=@every 1m"`
	ActivityWorkers int    `env:"ACTIVITY_WORKERS,   default=4"`
}

// MailConfig is carried for deployments that configure outgoing mail. No
// component sends mail yet.
type MailConfig struct {
	Server   string `env:"MAIL_SERVER,   default=smtp.gmail.com"`
	Port     int    `env:"MAIL_PORT,     default=587"`
	UseTLS   bool   `env:"MAIL_USE_TLS,  default=true"`
	Username string `env:"MAIL_USERNAME"`
	Password string `env:"MAIL_PASSWORD"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}

	if cfg.SecretKey == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("SECRET_KEY is required outside development")
		}
		cfg.SecretKey = devSecretKey
	}
	if !cfg.IsDevelopment() && cfg.Seed.DefaultAccounts {
		return nil, errors.New("SEED_DEFAULT_ACCOUNTS must not be enabled outside development")
	}
	return &cfg, nil
}
