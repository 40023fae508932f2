package domain

import (
	"fmt"
	"time"
)

// Default ledger economics. The service reads the effective values from config.
const (
	DefaultStarterGrant int64 = 50
	DefaultProposalCost int64 = 4
	DefaultHireBonus    int64 = 8

	StarterReason = "Welcome Starter Pack"
)

// EntryType is the side of a ledger history entry.
type EntryType string

const (
	EntryEarned EntryType = "earned"
	EntrySpent  EntryType = "spent"
)

// LedgerEntry is one append-only record in a connects ledger.
type LedgerEntry struct {
	ID        string    `json:"id" bson:"id"`
	Type      EntryType `json:"type" bson:"type"`
	Amount    int64     `json:"amount" bson:"amount"`
	Reason    string    `json:"reason" bson:"reason"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Ledger is the connects balance embedded in a freelancer's user record.
//
// Available always equals the sum of earned entries minus the sum of spent
// entries in History, and never drops below zero.
type Ledger struct {
	Available   int64         `json:"available" bson:"available"`
	TotalEarned int64         `json:"totalEarned" bson:"total_earned"`
	History     []LedgerEntry `json:"history" bson:"history"`
}

// NewStarterLedger returns a fresh ledger seeded with the welcome grant.
func NewStarterLedger(grant int64, entryID string, now time.Time) *Ledger {
	return &Ledger{
		Available:   grant,
		TotalEarned: grant,
		History: []LedgerEntry{{
			ID:        entryID,
			Type:      EntryEarned,
			Amount:    grant,
			Reason:    StarterReason,
			Timestamp: now,
		}},
	}
}

// Apply appends entry and adjusts the balances. A spend larger than the
// available balance is rejected and leaves the ledger untouched.
//
// Apply is the reference semantics for a single mutation. Repositories
// implementing ApplyDebit and ApplyCredit as conditional updates must leave
// the stored ledger exactly as Apply would.
func (l *Ledger) Apply(entry LedgerEntry) error {
	if entry.Amount <= 0 {
		return ErrInvalidAmount
	}
	switch entry.Type {
	case EntryEarned:
		l.Available += entry.Amount
		l.TotalEarned += entry.Amount
	case EntrySpent:
		if entry.Amount > l.Available {
			return ErrInsufficientBalance
		}
		l.Available -= entry.Amount
	default:
		return fmt.Errorf("unknown ledger entry type %q", entry.Type)
	}
	l.History = append(l.History, entry)
	return nil
}

// Verify checks the conservation rule against the recorded history.
func (l *Ledger) Verify() error {
	var earned, spent int64
	for _, e := range l.History {
		switch e.Type {
		case EntryEarned:
			earned += e.Amount
		case EntrySpent:
			spent += e.Amount
		}
	}
	if l.Available < 0 {
		return fmt.Errorf("ledger: negative balance %d", l.Available)
	}
	if l.Available != earned-spent {
		return fmt.Errorf("ledger: available %d does not match history (earned %d, spent %d)", l.Available, earned, spent)
	}
	return nil
}

// Clone returns a deep copy so snapshots cannot alias the live ledger.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return nil
	}
	c := *l
	c.History = append([]LedgerEntry(nil), l.History...)
	return &c
}
