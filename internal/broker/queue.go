package broker

import (
	"context"
	"time"
)

// Message is one unit pulled from the queue. Body is the opaque serialized
// payload; ReceiptHandle identifies this receive for acknowledgement.
type Message struct {
	Body          string
	ReceiptHandle string
}

// Queue is the narrow consumption contract the worker depends on.
// Implementations guarantee at-least-once delivery: an unacknowledged
// message becomes visible again after the broker's visibility timeout, and
// exhausted messages may be routed to a dead-letter destination that the
// worker observes but does not manage.
type Queue interface {
	// Poll blocks for up to wait and returns at most maxMessages messages.
	// A nil slice with a nil error means the queue was empty.
	Poll(ctx context.Context, maxMessages int, wait time.Duration) ([]Message, error)

	// Delete acknowledges one received message so it is never redelivered.
	Delete(ctx context.Context, receiptHandle string) error
}

// Producer is the submission-side contract used by the API to enqueue
// notification bodies.
type Producer interface {
	Enqueue(ctx context.Context, body []byte) error
}
