package audit

import (
	"sync"

	"github.com/BruksfildServices01/homefix/internal/logger"
)

type Event struct {
	ActorEmail string
	ActorRole  string
	Action     string
	Entity     string
	EntityID   string
	Metadata   any
}

// Dispatcher writes events from a single background worker so request
// handlers never wait on the audit table.
type Dispatcher struct {
	sink  Sink
	log   *logger.Logger
	queue chan Event

	// mu guards closed; senders hold the read lock so Close never
	// closes the queue under them.
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(sink Sink, log *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Log(ev); err != nil {
			d.log.WithError(err).With("action", ev.Action).Error("audit write failed")
		}
	}
}

// Dispatch never blocks: when the queue is full, or the dispatcher has
// been closed, the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.With("action", ev.Action).Warn("audit dispatcher closed, dropping event")
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.With("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	<-d.done
}
