package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/writerhub/marketplace/internal/api/metrics"
	"github.com/writerhub/marketplace/internal/session"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Sink receives notifications from a worker.
type Sink interface {
	Deliver(ctx context.Context, n session.Notification) error
}

// Dispatcher fans notifications out to a fixed set of workers, hashing on the
// channel so that notifications of one channel are delivered in order.
// Notify never blocks the caller once Start has run, unless a worker's
// buffer is full.
type Dispatcher struct {
	workers []chan session.Notification
	sink    Sink
	log     zerolog.Logger

	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

var _ session.Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink Sink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan session.Notification, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan session.Notification, channelBuffer)
	}
	return d
}

// Start launches the workers. They exit when their channel is closed by
// Close; ctx is passed to the sink.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Notify enqueues n on the worker responsible for its channel. Notifications
// sent after Close are dropped.
func (d *Dispatcher) Notify(n session.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Debug().Str("title", n.Title).Msg("dispatcher closed, notification dropped")
		return
	}
	d.workers[d.shardIndex(n.Channel)] <- n
}

// Close stops accepting notifications and waits until every queued one has
// been delivered.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
		d.mu.Unlock()
	})
	d.wg.Wait()
}

func (d *Dispatcher) shardIndex(channel string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(channel))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan session.Notification) {
	defer d.wg.Done()
	for n := range ch {
		if err := d.sink.Deliver(ctx, n); err != nil {
			d.log.Error().Err(err).
				Str("channel", n.Channel).
				Int("worker_id", id).
				Msg("notification delivery failed")
			continue
		}
		metrics.NotificationsDispatchedTotal.WithLabelValues(string(n.Variant)).Inc()
	}
}
