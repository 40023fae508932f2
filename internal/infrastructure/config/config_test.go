package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "marketplace", cfg.Mongo.Database)
	assert.Equal(t, 10*time.Second, cfg.Mongo.Timeout)
	assert.Equal(t, int64(50), cfg.Ledger.StarterGrant)
	assert.Equal(t, int64(4), cfg.Ledger.ProposalCost)
	assert.Equal(t, int64(8), cfg.Ledger.HireBonus)
	assert.Equal(t, 30*time.Second, cfg.Ledger.SubmissionGuardTTL)
	assert.Equal(t, 3, cfg.Onboarding.MaxAttempts)
	assert.True(t, cfg.Mirror.Async)
	assert.Equal(t, 8, cfg.Mirror.Workers)
	assert.False(t, cfg.IsProduction())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":                 "9090",
		"ADMIN_EMAILS":         "ops@gigboard.dev,root@gigboard.dev",
		"LEDGER_STARTER_GRANT": "100",
		"MIRROR_ASYNC":         "false",
		"SUBMISSION_GUARD_TTL": "5s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"ops@gigboard.dev", "root@gigboard.dev"}, cfg.AdminEmails)
	assert.Equal(t, int64(100), cfg.Ledger.StarterGrant)
	assert.False(t, cfg.Mirror.Async)
	assert.Equal(t, 5*time.Second, cfg.Ledger.SubmissionGuardTTL)
}

func TestLoadWith_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"production without secret", map[string]string{"ENV": "production"}},
		{"zero proposal cost", map[string]string{"PROPOSAL_COST": "0"}},
		{"node out of range", map[string]string{"SNOWFLAKE_NODE": "2048"}},
		{"no onboarding attempts", map[string]string{"ONBOARDING_MAX_ATTEMPTS": "0"}},
		{"unparsable duration", map[string]string{"MONGO_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			assert.Error(t, err)
		})
	}
}
