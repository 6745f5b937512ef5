package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/profilehub/membership-service/internal/api/metrics"
	"github.com/profilehub/membership-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher routes analytics events to a fixed set of workers using
// consistent hashing on the user id, so events of one user reach the sink in
// the order they were tracked.
type Dispatcher struct {
	workers []chan ports.AnalyticsEvent
	sink    ports.EventSink
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to buffer events. Non-positive values fall back to defaults.
func NewDispatcher(numWorkers, buffer int, sink ports.EventSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &Dispatcher{
		workers: make([]chan ports.AnalyticsEvent, numWorkers),
		sink:    sink,
		log:     log.With().Str("component", "analytics_dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AnalyticsEvent, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Close is called;
// ctx only bounds individual sink writes.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(context.WithoutCancel(ctx), i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its user. It never
// blocks: when the worker's buffer is full or the dispatcher is closed the
// event is dropped and false is returned.
func (d *Dispatcher) Enqueue(event ports.AnalyticsEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.AnalyticsDroppedTotal.Inc()
		return false
	}

	select {
	case d.workers[d.shardIndex(event.UserID)] <- event:
		return true
	default:
		metrics.AnalyticsDroppedTotal.Inc()
		d.log.Debug().Str("event", event.Name).Msg("analytics buffer full, dropping event")
		return false
	}
}

// Close stops accepting events, lets the workers drain what is buffered and
// waits for them to exit.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a user id deterministically to a worker index. Anonymous
// events share the shard of the empty id.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AnalyticsEvent) {
	defer d.wg.Done()
	for event := range ch {
		if err := d.deliver(ctx, event); err != nil {
			metrics.AnalyticsSinkErrorsTotal.Inc()
			d.log.Error().Err(err).
				Str("event", event.Name).
				Str("user_id", event.UserID).
				Int("worker_id", id).
				Msg("analytics delivery failed")
		}
	}
}

// deliver writes one event to the sink. A panicking sink is reported as an
// error so the worker keeps running.
func (d *Dispatcher) deliver(ctx context.Context, event ports.AnalyticsEvent) (err error) {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panic: %v", r)
		}
	}()
	return d.sink.Write(writeCtx, event)
}
