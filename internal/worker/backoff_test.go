package worker

import (
	"testing"
	"time"
)

func TestPollBackoff_DoublesAndCaps(t *testing.T) {
	b := newPollBackoff(time.Second, 60*time.Second)

	want := []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
		16 * time.Second, 32 * time.Second, 60 * time.Second, 60 * time.Second,
	}
	for i, expected := range want {
		if got := b.Next(); got != expected {
			t.Fatalf("attempt %d: expected %v, got %v", i, expected, got)
		}
	}
}

func TestPollBackoff_ResetReturnsToInitial(t *testing.T) {
	b := newPollBackoff(time.Second, 60*time.Second)
	b.Next()
	b.Next()

	b.Reset()

	if got := b.Next(); got != time.Second {
		t.Fatalf("expected reset to initial 1s, got %v", got)
	}
}

func TestPollBackoff_Defaults(t *testing.T) {
	b := newPollBackoff(0, 0)
	if b.initial != time.Second {
		t.Fatalf("expected default initial 1s, got %v", b.initial)
	}
	if b.max < b.initial {
		t.Fatalf("expected max >= initial, got %v", b.max)
	}
}
