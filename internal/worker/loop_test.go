package worker

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/broker"
	"github.com/projectdolphin/notification-pipeline/internal/dispatch"
	"github.com/projectdolphin/notification-pipeline/internal/domain"
	"github.com/projectdolphin/notification-pipeline/internal/health"
	"github.com/projectdolphin/notification-pipeline/internal/ratelimiter"
	"github.com/projectdolphin/notification-pipeline/internal/repository"
	"github.com/projectdolphin/notification-pipeline/internal/transport"
)

// newTestLoop wires a Loop against a scripted queue. The returned sleep log
// records every delay the loop requested; the loop stops after maxSleeps so
// tests terminate without real time passing.
func newTestLoop(t *testing.T, queue *broker.MockQueue, maxSleeps int) (*Loop, *[]time.Duration) {
	t.Helper()

	repo := repository.NewMockApplicationRepository()
	if err := repo.Create(context.Background(), &domain.Application{
		ApplicationID:    "acme",
		Name:             "Acme",
		ContactEmail:     "ops@acme.test",
		BulkMessageTopic: "topic-1",
	}); err != nil {
		t.Fatalf("seed application: %v", err)
	}

	mt := transport.NewMockTransport()
	d := dispatch.NewDispatcher(mt, mt, ratelimiter.New(100),
		"notifications@project-dolphin.com", "notifications-broadcast", zap.NewNop())
	proc := NewProcessor(repo, d, repository.NewMockAuditStore(),
		health.NewTracker(), MetricHooks{}, zap.NewNop())

	loop := NewLoop(0, queue, proc, health.NewTracker(), LoopConfig{
		MaxMessages:    1,
		Wait:           time.Millisecond,
		IdleDelay:      10 * time.Millisecond,
		BackoffInitial: time.Second,
		BackoffMax:     60 * time.Second,
	}, nil, zap.NewNop())

	slept := &[]time.Duration{}
	loop.sleep = func(_ context.Context, d time.Duration) bool {
		*slept = append(*slept, d)
		return len(*slept) < maxSleeps
	}
	return loop, slept
}

const goodBody = `{"Application":"acme","OutputType":"SMS","Message":"hi","PhoneNumber":"+15551234567"}`

func TestLoop_DeletesOnlyDeliveredMessages(t *testing.T) {
	queue := broker.NewMockQueue()
	queue.AddBatch(
		broker.Message{Body: goodBody, ReceiptHandle: "rh-1"},
		broker.Message{Body: `{"Application":"acme","OutputType":"FAX"}`, ReceiptHandle: "rh-2"},
		broker.Message{Body: goodBody, ReceiptHandle: "rh-3"},
	)

	loop, _ := newTestLoop(t, queue, 1)
	loop.Run(context.Background())

	if want := []string{"rh-1", "rh-3"}; !reflect.DeepEqual(queue.Deleted, want) {
		t.Fatalf("expected deletes %v, got %v", want, queue.Deleted)
	}
}

func TestLoop_BacksOffExponentiallyOnPollFailures(t *testing.T) {
	queue := broker.NewMockQueue()
	queue.AddPollError(errors.New("queue unavailable"))
	queue.AddPollError(errors.New("queue unavailable"))
	queue.AddPollError(errors.New("queue unavailable"))

	loop, slept := newTestLoop(t, queue, 3)
	loop.Run(context.Background())

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if !reflect.DeepEqual(*slept, want) {
		t.Fatalf("expected backoff delays %v, got %v", want, *slept)
	}
}

func TestLoop_BackoffResetsAfterSuccessfulPoll(t *testing.T) {
	queue := broker.NewMockQueue()
	queue.AddPollError(errors.New("queue unavailable"))
	queue.AddPollError(errors.New("queue unavailable"))
	queue.AddBatch(broker.Message{Body: goodBody, ReceiptHandle: "rh-1"})
	queue.AddPollError(errors.New("queue unavailable"))

	// Delays: 1s, 2s (failures), then the failure after the successful poll
	// starts over at 1s. The final sleep ends the test.
	loop, slept := newTestLoop(t, queue, 3)
	loop.Run(context.Background())

	want := []time.Duration{time.Second, 2 * time.Second, time.Second}
	if !reflect.DeepEqual(*slept, want) {
		t.Fatalf("expected delays %v, got %v", want, *slept)
	}
	if !reflect.DeepEqual(queue.Deleted, []string{"rh-1"}) {
		t.Fatalf("expected rh-1 deleted, got %v", queue.Deleted)
	}
}

func TestLoop_IdlesOnEmptyPoll(t *testing.T) {
	queue := broker.NewMockQueue()

	loop, slept := newTestLoop(t, queue, 2)
	loop.Run(context.Background())

	want := []time.Duration{10 * time.Millisecond, 10 * time.Millisecond}
	if !reflect.DeepEqual(*slept, want) {
		t.Fatalf("expected idle delays %v, got %v", want, *slept)
	}
}

func TestLoop_StopsOnContextCancel(t *testing.T) {
	queue := broker.NewMockQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loop, _ := newTestLoop(t, queue, 100)
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	if queue.PollCalls != 0 {
		t.Fatalf("expected no polls after cancellation, got %d", queue.PollCalls)
	}
}

// cancellingQueue triggers shutdown the moment a batch is handed to the
// loop, simulating a signal arriving mid-flight.
type cancellingQueue struct {
	*broker.MockQueue
	cancel context.CancelFunc
}

func (q *cancellingQueue) Poll(ctx context.Context, max int, wait time.Duration) ([]broker.Message, error) {
	msgs, err := q.MockQueue.Poll(ctx, max, wait)
	if len(msgs) > 0 {
		q.cancel()
	}
	return msgs, err
}

func TestLoop_DrainsBatchDuringShutdown(t *testing.T) {
	inner := broker.NewMockQueue()
	inner.AddBatch(
		broker.Message{Body: goodBody, ReceiptHandle: "rh-1"},
		broker.Message{Body: goodBody, ReceiptHandle: "rh-2"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue := &cancellingQueue{MockQueue: inner, cancel: cancel}

	loop, _ := newTestLoop(t, inner, 100)
	loop.queue = queue

	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after shutdown")
	}

	// Both messages of the claimed batch must be delivered and acknowledged
	// before the loop exits.
	if want := []string{"rh-1", "rh-2"}; !reflect.DeepEqual(inner.Deleted, want) {
		t.Fatalf("expected full batch acknowledged, got %v", inner.Deleted)
	}
}
