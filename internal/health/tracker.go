package health

import (
	"sync/atomic"
	"time"
)

// Tracker holds the process-wide worker runtime counters. Counters increase
// monotonically for the process lifetime and are safe for concurrent
// increment when multiple poll loops share one process. It is injected into
// the loop and processor rather than living as an implicit singleton.
type Tracker struct {
	startTime time.Time

	messagesProcessed atomic.Int64
	errorsCount       atomic.Int64
	dlqMessagesCount  atomic.Int64
	lastProcessed     atomic.Int64 // unix nanoseconds; 0 = never
}

func NewTracker() *Tracker {
	return &Tracker{startTime: time.Now().UTC()}
}

// RecordMessageProcessed marks one successful delivery.
func (t *Tracker) RecordMessageProcessed() {
	t.messagesProcessed.Add(1)
	t.lastProcessed.Store(time.Now().UTC().UnixNano())
}

// RecordError marks one failed processing attempt or poll error.
func (t *Tracker) RecordError() {
	t.errorsCount.Add(1)
}

// RecordDeadLetters marks n messages observed moving to the dead-letter
// destination. The worker observes these; it does not manage them.
func (t *Tracker) RecordDeadLetters(n int) {
	t.dlqMessagesCount.Add(int64(n))
}

// Snapshot is the read-only status surface exposed to the liveness prober.
type Snapshot struct {
	Status               string     `json:"status"`
	UptimeSeconds        float64    `json:"uptime_seconds"`
	MessagesProcessed    int64      `json:"messages_processed"`
	ErrorsCount          int64      `json:"errors_count"`
	DLQMessagesCount     int64      `json:"dlq_messages_count"`
	LastMessageProcessed *time.Time `json:"last_message_processed"`
	Timestamp            time.Time  `json:"timestamp"`
}

func (t *Tracker) Snapshot() Snapshot {
	now := time.Now().UTC()
	s := Snapshot{
		Status:            "healthy",
		UptimeSeconds:     now.Sub(t.startTime).Seconds(),
		MessagesProcessed: t.messagesProcessed.Load(),
		ErrorsCount:       t.errorsCount.Load(),
		DLQMessagesCount:  t.dlqMessagesCount.Load(),
		Timestamp:         now,
	}
	if ns := t.lastProcessed.Load(); ns > 0 {
		last := time.Unix(0, ns).UTC()
		s.LastMessageProcessed = &last
	}
	return s
}
