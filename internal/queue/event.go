// Package queue defines the messages exchanged over RabbitMQ and the
// consumer that turns cascade events into an audit log.
package queue

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// CascadeQueue is the durable queue carrying CascadeDeletedEvent.
const CascadeQueue = "cascade.deleted"

// CascadeDeletedEvent is published after a cascading delete commits.
type CascadeDeletedEvent struct {
	Kind      string           `json:"kind"`
	ID        uint64           `json:"id"`
	Removed   map[string]int64 `json:"removed"`
	DeletedAt string           `json:"deleted_at"`
	RequestID string           `json:"request_id,omitempty"`
}

// Declare makes sure CascadeQueue exists.  Safe to call from publisher and
// consumer alike.
func Declare(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(CascadeQueue, true, false, false, false, nil)
}
