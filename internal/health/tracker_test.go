package health

import (
	"sync"
	"testing"
	"time"
)

func TestTracker_Snapshot(t *testing.T) {
	tr := NewTracker()

	s := tr.Snapshot()
	if s.Status != "healthy" {
		t.Fatalf("expected status healthy, got %q", s.Status)
	}
	if s.MessagesProcessed != 0 || s.ErrorsCount != 0 || s.DLQMessagesCount != 0 {
		t.Fatalf("expected zero counters, got %+v", s)
	}
	if s.LastMessageProcessed != nil {
		t.Fatal("expected nil last processed before any message")
	}

	tr.RecordMessageProcessed()
	tr.RecordMessageProcessed()
	tr.RecordError()
	tr.RecordDeadLetters(3)

	s = tr.Snapshot()
	if s.MessagesProcessed != 2 {
		t.Fatalf("expected 2 processed, got %d", s.MessagesProcessed)
	}
	if s.ErrorsCount != 1 {
		t.Fatalf("expected 1 error, got %d", s.ErrorsCount)
	}
	if s.DLQMessagesCount != 3 {
		t.Fatalf("expected 3 dead letters, got %d", s.DLQMessagesCount)
	}
	if s.LastMessageProcessed == nil {
		t.Fatal("expected last processed to be set")
	}
	if since := time.Since(*s.LastMessageProcessed); since < 0 || since > time.Minute {
		t.Fatalf("last processed timestamp implausible: %v", *s.LastMessageProcessed)
	}
	if s.UptimeSeconds < 0 {
		t.Fatalf("negative uptime: %f", s.UptimeSeconds)
	}
}

func TestTracker_ConcurrentIncrements(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.RecordMessageProcessed()
				tr.RecordError()
			}
		}()
	}
	wg.Wait()

	s := tr.Snapshot()
	if s.MessagesProcessed != 1000 || s.ErrorsCount != 1000 {
		t.Fatalf("lost increments: %+v", s)
	}
}
