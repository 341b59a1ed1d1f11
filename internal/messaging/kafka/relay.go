package kafka

import (
	"context"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher is what the relay needs from a kafka writer.
type Publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Relay drains the outbox table and publishes pending events. It is an
// explicitly constructed service owned by the composition root: Start spawns
// the polling loop, Stop blocks until the loop has drained its current batch.
type Relay struct {
	repo         OutboxRepository
	writer       Publisher
	logger       *zap.Logger
	pollInterval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewRelay(repo OutboxRepository, writer Publisher, pollInterval time.Duration, logger ...*zap.Logger) *Relay {
	l := zap.L().Named("kafka.relay")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.relay")
	}
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &Relay{
		repo:         repo,
		writer:       writer,
		logger:       l,
		pollInterval: pollInterval,
	}
}

func (r *Relay) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.pollInterval)
		defer ticker.Stop()

		r.logger.Info("outbox relay started", zap.Duration("poll_interval", r.pollInterval))

		for {
			select {
			case <-ctx.Done():
				r.logger.Info("outbox relay stopped")
				return
			case <-ticker.C:
				if err := r.processPending(ctx); err != nil {
					r.logger.Error("process outbox events failed", zap.Error(err))
				}
			}
		}
	}()
}

func (r *Relay) Stop() {
	r.once.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
		if r.done != nil {
			<-r.done
		}
	})
}

func (r *Relay) processPending(ctx context.Context) error {
	events, err := r.repo.ListPending(ctx, 50)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	r.logger.Info("processing pending outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		if err := r.publish(ctx, event); err != nil {
			r.logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			_ = r.repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := r.repo.MarkSent(ctx, event.ID); err != nil {
			r.logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		r.logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	return nil
}

func (r *Relay) publish(ctx context.Context, event OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		},
	}

	return r.writer.WriteMessages(ctx, msg)
}
