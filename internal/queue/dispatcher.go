package queue

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/tattler/internal/logger"
)

const (
	defaultBufferSize     = 256
	defaultPublishTimeout = 5 * time.Second
	drainTimeout          = 5 * time.Second
)

// ErrBufferFull is returned when events arrive faster than the broker
// accepts them. The event is dropped.
var ErrBufferFull = errors.New("review event buffer full")

// EventSink delivers a single review event.
type EventSink interface {
	PublishReview(ctx context.Context, ev ReviewEvent) error
}

// Dispatcher hands review events to a sink from a background goroutine so
// that a slow or unreachable broker never delays the request that produced
// the event. Run must be started for events to leave the buffer.
type Dispatcher struct {
	sink    EventSink
	events  chan ReviewEvent
	timeout time.Duration
	log     *logger.Logger
}

func NewDispatcher(sink EventSink, size int, log *logger.Logger) *Dispatcher {
	if size <= 0 {
		size = defaultBufferSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		sink:    sink,
		events:  make(chan ReviewEvent, size),
		timeout: defaultPublishTimeout,
		log:     log,
	}
}

// PublishReview queues ev without blocking.
func (d *Dispatcher) PublishReview(_ context.Context, ev ReviewEvent) error {
	select {
	case d.events <- ev:
		return nil
	default:
		return ErrBufferFull
	}
}

// Run delivers queued events until ctx is cancelled, then makes a bounded
// attempt to flush what is left.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return nil
		case ev := <-d.events:
			d.send(context.Background(), ev)
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case ev := <-d.events:
			if ctx.Err() != nil {
				d.log.Warn(ctx, "review event dropped on shutdown")
				continue
			}
			d.send(ctx, ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) send(parent context.Context, ev ReviewEvent) {
	ctx, cancel := context.WithTimeout(parent, d.timeout)
	defer cancel()
	if err := d.sink.PublishReview(ctx, ev); err != nil {
		d.log.Error(d.log.WithFields(ctx, map[string]any{"kind": ev.Kind}), "publish review event failed", err)
	}
}
