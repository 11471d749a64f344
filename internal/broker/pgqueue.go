package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

// claimInterval is how often Poll re-checks the table while long-polling.
const claimInterval = 250 * time.Millisecond

// PgQueue implements Queue and Producer on a PostgreSQL table. Claims use
// FOR UPDATE SKIP LOCKED so concurrent worker processes never receive the
// same message twice inside the visibility window; the visible_at column is
// the visibility timeout. Messages received more than maxReceive times are
// moved to the dead-letter table before each claim.
type PgQueue struct {
	pool       *pgxpool.Pool
	queue      string
	visibility time.Duration
	maxReceive int
	logger     *zap.Logger

	// Invoked with the number of messages moved to the dead-letter table.
	// Injected by main so the queue stays metrics-agnostic. Never nil.
	onDeadLetter func(count int)
}

func NewPgQueue(
	pool *pgxpool.Pool,
	queue string,
	visibility time.Duration,
	maxReceive int,
	logger *zap.Logger,
	onDeadLetter func(count int),
) *PgQueue {
	if onDeadLetter == nil {
		onDeadLetter = func(int) {}
	}
	return &PgQueue{
		pool:         pool,
		queue:        queue,
		visibility:   visibility,
		maxReceive:   maxReceive,
		logger:       logger,
		onDeadLetter: onDeadLetter,
	}
}

// Poll long-polls the table: it claims up to maxMessages visible rows,
// returning early when anything is found, otherwise re-checking every
// claimInterval until wait elapses or ctx is cancelled.
func (q *PgQueue) Poll(ctx context.Context, maxMessages int, wait time.Duration) ([]Message, error) {
	deadline := time.Now().Add(wait)

	for {
		if err := q.redrive(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrQueuePoll, err)
		}

		msgs, err := q.claim(ctx, maxMessages)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrQueuePoll, err)
		}
		if len(msgs) > 0 {
			return msgs, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, nil
		}
		if remaining > claimInterval {
			remaining = claimInterval
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrQueuePoll, ctx.Err())
		case <-time.After(remaining):
		}
	}
}

// claim atomically selects visible rows and pushes their visible_at forward
// by the visibility timeout, incrementing receive_count. The row id doubles
// as the receipt handle.
func (q *PgQueue) claim(ctx context.Context, maxMessages int) ([]Message, error) {
	rows, err := q.pool.Query(ctx, `
		WITH claimed AS (
			SELECT id FROM queue_messages
			WHERE queue = $1 AND visible_at <= now()
			ORDER BY enqueued_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		UPDATE queue_messages m
		SET visible_at = now() + make_interval(secs => $3),
		    receive_count = m.receive_count + 1
		FROM claimed
		WHERE m.id = claimed.id
		RETURNING m.id, m.body`,
		q.queue, maxMessages, q.visibility.Seconds(),
	)
	if err != nil {
		return nil, fmt.Errorf("claim messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan claimed message: %w", err)
		}
		msgs = append(msgs, Message{Body: body, ReceiptHandle: id})
	}
	return msgs, rows.Err()
}

// redrive moves exhausted messages (receive_count >= maxReceive and visible
// again, meaning the last consumer never acknowledged) to the dead-letter
// table.
func (q *PgQueue) redrive(ctx context.Context) error {
	tag, err := q.pool.Exec(ctx, `
		WITH moved AS (
			DELETE FROM queue_messages
			WHERE queue = $1 AND receive_count >= $2 AND visible_at <= now()
			RETURNING id, queue, body, receive_count, enqueued_at
		)
		INSERT INTO queue_dead_letters (id, queue, body, receive_count, enqueued_at, dead_lettered_at)
		SELECT id, queue, body, receive_count, enqueued_at, now() FROM moved`,
		q.queue, q.maxReceive,
	)
	if err != nil {
		return fmt.Errorf("redrive dead letters: %w", err)
	}
	if n := tag.RowsAffected(); n > 0 {
		q.logger.Warn("messages moved to dead-letter table",
			zap.String("queue", q.queue), zap.Int64("count", n))
		q.onDeadLetter(int(n))
	}
	return nil
}

// Delete acknowledges a message by removing its row.
func (q *PgQueue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.pool.Exec(ctx,
		`DELETE FROM queue_messages WHERE id = $1`, receiptHandle)
	if err != nil {
		return fmt.Errorf("delete message %s: %w", receiptHandle, err)
	}
	return nil
}

// Enqueue appends one body to the queue, immediately visible.
func (q *PgQueue) Enqueue(ctx context.Context, body []byte) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO queue_messages (id, queue, body, receive_count, visible_at, enqueued_at)
		VALUES ($1, $2, $3, 0, now(), now())`,
		uuid.New().String(), q.queue, string(body),
	)
	if err != nil {
		return fmt.Errorf("enqueue message: %w", err)
	}
	return nil
}

// compile-time checks
var (
	_ Queue    = (*PgQueue)(nil)
	_ Producer = (*PgQueue)(nil)
)
