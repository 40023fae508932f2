// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace core. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init through promauto; /metrics exposes them next to the echo request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Onboarding metrics ───────────────────────────────────────────────────────

// OnboardingTotal counts CompleteOnboarding calls.
// Label:
//   - result: "ok", "conflict", "invalid" or "failed"
var OnboardingTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "onboarding_total",
		Help:      "Total number of onboarding attempts, by result.",
	},
	[]string{"result"},
)

// IdentifiersIssuedTotal counts role identifiers committed by onboarding.
// Label:
//   - role: "freelancer" or "client"
var IdentifiersIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identifiers_issued_total",
		Help:      "Total number of role identifiers issued.",
	},
	[]string{"role"},
)

// SequenceResetsTotal counts self-healing counter resets.
var SequenceResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sequence_resets_total",
		Help:      "Total number of sequence counters reset because the first directory entry was missing.",
	},
	[]string{"role"},
)

// ── Ledger metrics ───────────────────────────────────────────────────────────

// LedgerOperationsTotal counts ledger mutations.
// Labels:
//   - op: "initialize", "debit" or "credit"
//   - result: "ok", "insufficient_balance", "not_found" or "error"
var LedgerOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_operations_total",
		Help:      "Total number of connects ledger operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// LedgerAmountTotal sums connects moved by successful operations.
var LedgerAmountTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_amount_total",
		Help:      "Total connects moved by successful ledger operations.",
	},
	[]string{"op"},
)

// ── Directory mirror metrics ─────────────────────────────────────────────────

// MirrorFailuresTotal counts best-effort directory mirror writes that failed
// or were dropped.
// Label:
//   - reason: "write_failed", "not_found" or "queue_full"
var MirrorFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mirror_failures_total",
		Help:      "Total number of directory mirror writes that did not land.",
	},
	[]string{"reason"},
)

// MirrorQueueDepth tracks pending mirror jobs per dispatcher worker.
var MirrorQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mirror_queue_depth",
		Help:      "Current number of mirror jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// MirrorDuration measures a single directory mirror write.
var MirrorDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mirror_duration_seconds",
		Help:      "Duration of directory mirror writes.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Settlement metrics ───────────────────────────────────────────────────────

// SettlementEventsTotal counts marketplace events that touch the ledger.
// Labels:
//   - event: "proposal" or "hire"
//   - result: "ok", "rejected", "refunded" or "bonus_failed"
var SettlementEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlement_events_total",
		Help:      "Total number of proposal and hire settlements, by result.",
	},
	[]string{"event", "result"},
)
