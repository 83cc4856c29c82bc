package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/greenpath/platform/internal/api/metrics"
	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher is the single consumer of the session-change stream. It routes
// events to a fixed set of workers using consistent hashing on the identity,
// so each identity's events are handled in order, one at a time.
type Dispatcher struct {
	workers []chan domain.SessionEvent
	handler ports.SessionEventHandler
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler ports.SessionEventHandler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.SessionEvent, numWorkers),
		handler: handler,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SessionEvent, channelBuffer)
	}
	return d
}

// Run consumes source until it is closed or ctx is cancelled, then waits
// for the workers to finish. Each event is announced to the handler as soon
// as it is received, before it is queued for its worker.
func (d *Dispatcher) Run(ctx context.Context, source <-chan domain.SessionEvent) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
	defer func() {
		for _, ch := range d.workers {
			close(ch)
		}
		d.wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-source:
			if !ok {
				return
			}
			d.handler.Announce(ev)
			if !d.enqueue(ctx, ev) {
				return
			}
		}
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, ev domain.SessionEvent) bool {
	idx := d.shardIndex(ev.Session.UserID)
	select {
	case d.workers[idx] <- ev:
		metrics.SessionQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	case <-ctx.Done():
		return false
	}
}

// shardIndex maps an identity deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.SessionEvent) {
	defer d.wg.Done()
	depth := metrics.SessionQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.log.Debug().
				Str("kind", string(ev.Kind)).
				Str("session_id", ev.Session.ID).
				Int("worker_id", id).
				Msg("session event dequeued")
			d.handler.HandleEvent(ctx, ev)
		}
	}
}
