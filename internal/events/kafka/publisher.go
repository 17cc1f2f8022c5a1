// Package kafka carries expense events over Kafka topics.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"expenses/internal/core"
	"expenses/internal/events"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher writes to topic on brokers. Messages are keyed by
// expense id so every event for a record lands on one partition.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
		topic: topic,
	}
}

func (p *Publisher) PublishExpenseCreated(ctx context.Context, rec core.ExpenseRecord) error {
	body, err := events.NewExpenseCreated(rec, time.Now().UTC()).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.ID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(events.TypeExpenseCreated)},
		},
	})
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}

	slog.DebugContext(ctx, "Published expense event", "id", rec.ID, "topic", p.topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	initialRetryDelay = time.Second
	maxRetryDelay     = 30 * time.Second
)

// Consumer reads expense events as part of a consumer group.
type Consumer struct {
	reader     messageReader
	retryDelay time.Duration
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 1 << 20,
		}),
		retryDelay: initialRetryDelay,
	}
}

// Consume hands every message to handler until ctx is done. Offsets are
// committed after the handler succeeds or the message is malformed.
//
// The reader's position moves past a message as soon as it is fetched,
// so a failed message is retried in place with backoff. Committing a
// later offset would acknowledge it too.
func (c *Consumer) Consume(ctx context.Context, handler events.Handler) error {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("fetch kafka message: %w", err)
		}

		if err := c.handle(ctx, m, handler); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			return fmt.Errorf("commit kafka offset: %w", err)
		}
	}
}

// handle returns nil once m may be committed, or ctx.Err() if ctx ends
// before the handler succeeds.
func (c *Consumer) handle(ctx context.Context, m kafka.Message, handler events.Handler) error {
	delay := c.retryDelay
	if delay <= 0 {
		delay = initialRetryDelay
	}

	for attempt := 1; ; attempt++ {
		msg, err := events.ExpenseCreatedFromJSON(m.Value)
		if err == nil {
			err = handler(ctx, msg)
		}
		switch {
		case err == nil:
			return nil
		case errors.Is(err, events.ErrInvalidMessage):
			slog.ErrorContext(ctx, "Skipping malformed message", "error", err, "offset", m.Offset)
			return nil
		}

		slog.WarnContext(ctx, "Failed to handle message, retrying",
			"error", err, "offset", m.Offset, "attempt", attempt, "backoff", delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
