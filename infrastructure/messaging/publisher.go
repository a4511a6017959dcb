// Package messaging holds event publishers that do not depend on a broker,
// and the async wrapper used in front of the broker-backed one.
package messaging

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/domain/events"
)

// ErrQueueFull is returned when the async queue cannot take another event.
var ErrQueueFull = errors.New("event queue is full")

// LogPublisher writes events to the log instead of a bus. Used when events
// are disabled.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, e events.DomainEvent) error {
	p.logger.Debug("domain event",
		zap.String("event_type", e.GetEventType()),
		zap.String("aggregate_id", e.GetAggregateID()),
		zap.Time("timestamp", e.GetTimestamp()))
	return nil
}

func (p *LogPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, e := range batch {
		_ = p.Publish(ctx, e)
	}
	return nil
}

// AsyncPublisher queues events and flushes them to the wrapped publisher in
// batches of up to batchSize, or every flushInterval.
type AsyncPublisher struct {
	next          ports.EventPublisher
	logger        *zap.Logger
	queue         chan events.DomainEvent
	done          chan struct{}
	wg            sync.WaitGroup
	closeOnce     sync.Once
	flushInterval time.Duration
	flushTimeout  time.Duration
}

const batchSize = 10

func NewAsyncPublisher(next ports.EventPublisher, queueSize int, flushInterval time.Duration, logger *zap.Logger) *AsyncPublisher {
	if queueSize <= 0 {
		queueSize = 1000
	}
	if flushInterval <= 0 {
		flushInterval = 100 * time.Millisecond
	}
	p := &AsyncPublisher{
		next:          next,
		logger:        logger,
		queue:         make(chan events.DomainEvent, queueSize),
		done:          make(chan struct{}),
		flushInterval: flushInterval,
		flushTimeout:  5 * time.Second,
	}
	p.wg.Add(1)
	go p.worker()
	return p
}

func (p *AsyncPublisher) Publish(ctx context.Context, e events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{e})
}

func (p *AsyncPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, e := range batch {
		select {
		case <-p.done:
			return errors.New("publisher closed")
		default:
		}
		select {
		case p.queue <- e:
		case <-ctx.Done():
			return ctx.Err()
		default:
			p.logger.Warn("dropping event, queue full", zap.String("event_type", e.GetEventType()))
			return ErrQueueFull
		}
	}
	return nil
}

func (p *AsyncPublisher) worker() {
	defer p.wg.Done()
	batch := make([]events.DomainEvent, 0, batchSize)
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), p.flushTimeout)
		defer cancel()
		if err := p.next.PublishBatch(ctx, batch); err != nil {
			p.logger.Error("failed to publish events", zap.Int("count", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case e := <-p.queue:
			batch = append(batch, e)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-p.done:
			for {
				select {
				case e := <-p.queue:
					batch = append(batch, e)
					if len(batch) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close drains the queue and stops the worker.
func (p *AsyncPublisher) Close() {
	p.closeOnce.Do(func() { close(p.done) })
	p.wg.Wait()
}

var (
	_ ports.EventPublisher = (*LogPublisher)(nil)
	_ ports.EventPublisher = (*AsyncPublisher)(nil)
)
