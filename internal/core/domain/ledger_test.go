package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStarterLedger(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	l := NewStarterLedger(DefaultStarterGrant, "e1", now)

	assert.Equal(t, int64(50), l.Available)
	assert.Equal(t, int64(50), l.TotalEarned)
	require.Len(t, l.History, 1)
	assert.Equal(t, StarterReason, l.History[0].Reason)
	assert.Equal(t, EntryEarned, l.History[0].Type)
	assert.NoError(t, l.Verify())
}

func TestLedger_Apply(t *testing.T) {
	l := NewStarterLedger(50, "e1", time.Now())

	require.NoError(t, l.Apply(LedgerEntry{ID: "e2", Type: EntrySpent, Amount: 4, Reason: "Proposal for: X"}))
	assert.Equal(t, int64(46), l.Available)

	require.NoError(t, l.Apply(LedgerEntry{ID: "e3", Type: EntryEarned, Amount: 8, Reason: "Hired for: X (Bonus)"}))
	assert.Equal(t, int64(54), l.Available)
	assert.Equal(t, int64(58), l.TotalEarned)
	assert.Len(t, l.History, 3)
	assert.NoError(t, l.Verify())
}

func TestLedger_Apply_RejectsOverspend(t *testing.T) {
	l := &Ledger{Available: 3, TotalEarned: 3, History: []LedgerEntry{{ID: "e1", Type: EntryEarned, Amount: 3}}}

	err := l.Apply(LedgerEntry{ID: "e2", Type: EntrySpent, Amount: 4})

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, int64(3), l.Available)
	assert.Len(t, l.History, 1)
}

func TestLedger_Apply_RejectsNonPositive(t *testing.T) {
	l := NewStarterLedger(50, "e1", time.Now())

	assert.ErrorIs(t, l.Apply(LedgerEntry{Type: EntryEarned, Amount: 0}), ErrInvalidAmount)
	assert.ErrorIs(t, l.Apply(LedgerEntry{Type: EntrySpent, Amount: -1}), ErrInvalidAmount)
}

func TestLedger_Verify_DetectsDrift(t *testing.T) {
	l := NewStarterLedger(50, "e1", time.Now())
	l.Available = 49

	assert.Error(t, l.Verify())
}

func TestLedger_Clone_IsIndependent(t *testing.T) {
	l := NewStarterLedger(50, "e1", time.Now())
	c := l.Clone()

	require.NoError(t, c.Apply(LedgerEntry{ID: "e2", Type: EntrySpent, Amount: 10}))

	assert.Equal(t, int64(50), l.Available)
	assert.Len(t, l.History, 1)
}
