package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const devJWTSecret = "dev-only-secret"

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, default=dev-only-secret"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	// AdminEmails receive the admin account role at registration.
	AdminEmails []string `env:"ADMIN_EMAILS"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Ledger     LedgerConfig
	Onboarding OnboardingConfig
	Mirror     MirrorConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database string        `env:"MONGO_DB,      default=marketplace"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

// LedgerConfig holds the connects economics and the history id generator node.
type LedgerConfig struct {
	StarterGrant       int64         `env:"LEDGER_STARTER_GRANT, default=50"`
	ProposalCost       int64         `env:"PROPOSAL_COST,        default=4"`
	HireBonus          int64         `env:"HIRE_BONUS,           default=8"`
	SnowflakeNode      int64         `env:"SNOWFLAKE_NODE,       default=1"`
	SubmissionGuardTTL time.Duration `env:"SUBMISSION_GUARD_TTL, default=30s"`
}

type OnboardingConfig struct {
	MaxAttempts int `env:"ONBOARDING_MAX_ATTEMPTS, default=3"`
}

// MirrorConfig controls whether directory mirror writes leave the request path.
type MirrorConfig struct {
	Async   bool `env:"MIRROR_ASYNC,   default=true"`
	Workers int  `env:"MIRROR_WORKERS, default=8"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.IsProduction() && c.JWTSecret == devJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.Ledger.StarterGrant <= 0 || c.Ledger.ProposalCost <= 0 || c.Ledger.HireBonus <= 0 {
		errs = append(errs, errors.New("ledger amounts must be positive"))
	}
	if c.Ledger.SnowflakeNode < 0 || c.Ledger.SnowflakeNode > 1023 {
		errs = append(errs, fmt.Errorf("SNOWFLAKE_NODE must be in [0, 1023], got %d", c.Ledger.SnowflakeNode))
	}
	if c.Onboarding.MaxAttempts < 1 {
		errs = append(errs, errors.New("ONBOARDING_MAX_ATTEMPTS must be at least 1"))
	}
	return errors.Join(errs...)
}
