package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gigboard/marketplace-core/internal/api/metrics"
	"github.com/gigboard/marketplace-core/internal/core/domain"
	"github.com/gigboard/marketplace-core/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

type mirrorJob struct {
	identifier string
	ledger     *domain.Ledger
}

// MirrorDispatcher moves directory mirror writes off the request path. Jobs
// are sharded by identifier so writes for one entry are applied in order.
// It implements ports.LedgerMirror.
type MirrorDispatcher struct {
	workers []chan mirrorJob
	target  ports.LedgerMirror
	log     zerolog.Logger
}

// NewMirrorDispatcher creates a MirrorDispatcher with numWorkers sharded
// workers feeding target. If numWorkers <= 0, defaultWorkers is used.
func NewMirrorDispatcher(numWorkers int, target ports.LedgerMirror, log zerolog.Logger) *MirrorDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MirrorDispatcher{
		workers: make([]chan mirrorJob, numWorkers),
		target:  target,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan mirrorJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MirrorDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Mirror enqueues the snapshot without blocking. When the shard is full the
// job is dropped; the entry catches up on the next mutation or a reconcile.
func (d *MirrorDispatcher) Mirror(_ context.Context, identifier string, ledger *domain.Ledger) {
	idx := d.shardIndex(identifier)
	select {
	case d.workers[idx] <- mirrorJob{identifier: identifier, ledger: ledger.Clone()}:
		metrics.MirrorQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.MirrorFailuresTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().
			Str("identifier", identifier).
			Int("worker_id", idx).
			Msg("mirror queue full, dropping snapshot")
	}
}

// shardIndex maps an identifier deterministically to a worker index.
func (d *MirrorDispatcher) shardIndex(identifier string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identifier))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *MirrorDispatcher) runWorker(ctx context.Context, id int, ch <-chan mirrorJob) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.MirrorQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.target.Mirror(ctx, job.identifier, job.ledger)
		}
	}
}
