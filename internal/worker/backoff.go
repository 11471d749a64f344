package worker

import "time"

// pollBackoff is the adaptive delay applied between failed queue polls.
// The delay doubles on every consecutive failure, capped at max, and resets
// to initial after any successful poll. Individual message failures never
// touch it. Not safe for concurrent use; each poll loop owns its own.
type pollBackoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newPollBackoff(initial, max time.Duration) *pollBackoff {
	if initial <= 0 {
		initial = time.Second
	}
	if max < initial {
		max = initial
	}
	return &pollBackoff{initial: initial, max: max, current: initial}
}

// Next returns the delay to apply now and doubles the stored delay for the
// following consecutive failure, capped at max.
func (b *pollBackoff) Next() time.Duration {
	d := b.current
	next := b.current * 2
	if next > b.max {
		next = b.max
	}
	b.current = next
	return d
}

func (b *pollBackoff) Reset() {
	b.current = b.initial
}
