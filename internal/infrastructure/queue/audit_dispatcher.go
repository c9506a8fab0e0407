package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/petcare/clinic-api/internal/core/domain"
	"github.com/petcare/clinic-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// AuditDispatcher persists access decisions off the request path. Decisions
// are sharded by subject so one caller's trail keeps its order.
type AuditDispatcher struct {
	workers []chan domain.AccessDecision
	repo    ports.AuditRepository
	log     zerolog.Logger
	dropped atomic.Int64
	wg      sync.WaitGroup

	droppedTotal prometheus.Counter
	queueDepth   *prometheus.GaugeVec
}

// DispatcherMetrics are optional collectors updated by the dispatcher.
type DispatcherMetrics struct {
	Dropped    prometheus.Counter
	QueueDepth *prometheus.GaugeVec
}

// NewAuditDispatcher creates numWorkers shards. If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, m DispatcherMetrics, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers:      make([]chan domain.AccessDecision, numWorkers),
		repo:         repo,
		log:          log,
		droppedTotal: m.Dropped,
		queueDepth:   m.QueueDepth,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AccessDecision, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain their shard and exit once ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *AuditDispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues a decision without blocking. A full shard drops it.
func (d *AuditDispatcher) Record(decision domain.AccessDecision) {
	idx := d.shardIndex(decision.SubjectID)
	select {
	case d.workers[idx] <- decision:
		d.observeDepth(idx)
	default:
		d.dropped.Add(1)
		if d.droppedTotal != nil {
			d.droppedTotal.Inc()
		}
		d.log.Warn().
			Str("operation", decision.Operation).
			Int("worker_id", idx).
			Msg("audit queue full, decision dropped")
	}
}

// Dropped is the number of decisions discarded since start.
func (d *AuditDispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// shardIndex maps a subject deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) observeDepth(idx int) {
	if d.queueDepth != nil {
		d.queueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	}
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AccessDecision) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case decision := <-ch:
			d.persist(context.WithoutCancel(ctx), id, decision)
		}
	}
}

// drain flushes what is already buffered so shutdown does not lose the tail.
func (d *AuditDispatcher) drain(id int, ch <-chan domain.AccessDecision) {
	for {
		select {
		case decision := <-ch:
			d.persist(context.Background(), id, decision)
		default:
			return
		}
	}
}

func (d *AuditDispatcher) persist(ctx context.Context, id int, decision domain.AccessDecision) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := d.repo.InsertDecision(ctx, &decision); err != nil {
		d.log.Error().Err(err).
			Str("operation", decision.Operation).
			Int("worker_id", id).
			Msg("audit persistence failed")
	}
	d.observeDepth(id)
}
