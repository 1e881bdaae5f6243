package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/marketplace/grocery-api/internal/queue"
	"github.com/marketplace/grocery-api/internal/repository"
)

// EventPublisher sends domain events to RabbitMQ.  Publishing is
// best-effort: failures are logged and returned, and callers are free to
// ignore them.
type EventPublisher struct {
	url string
	log *zap.Logger
}

func NewEventPublisher(url string, log *zap.Logger) *EventPublisher {
	return &EventPublisher{url: url, log: log}
}

// PublishCascadeDeleted publishes ev to the cascade.deleted queue.  Each
// call dials its own connection; deletes are rare enough that a pooled
// channel is not worth the reconnect handling.
func (p *EventPublisher) PublishCascadeDeleted(ctx context.Context, ev queue.CascadeDeletedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := queue.Declare(ch); err != nil {
		p.log.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.CascadeQueue, false, false, pub); err != nil {
		p.log.Warn("rabbitmq: publish failed", zap.Error(err))
		return err
	}
	return nil
}

// CascadeEvent converts a committed cascade into its queue message.
func CascadeEvent(r repository.CascadeResult, requestID string) queue.CascadeDeletedEvent {
	removed := make(map[string]int64, len(r.Removed))
	for k, n := range r.Removed {
		removed[string(k)] = n
	}
	return queue.CascadeDeletedEvent{
		Kind:      string(r.Kind),
		ID:        r.ID,
		Removed:   removed,
		DeletedAt: r.DeletedAt.UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}
