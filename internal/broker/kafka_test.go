package broker

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

type fakeCommitter struct {
	committed []kafka.Message
	err       error
}

func (f *fakeCommitter) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.committed = append(f.committed, msgs...)
	return nil
}

func newTestKafkaQueue(c kafkaCommitter) *KafkaQueue {
	return &KafkaQueue{
		committer:  c,
		pending:    make(map[string]kafka.Message),
		partitions: make(map[partitionKey]*kafkaPartition),
	}
}

func kafkaMsg(partition int, offset int64) kafka.Message {
	return kafka.Message{Topic: "notifications", Partition: partition, Offset: offset}
}

func committedOffsets(c *fakeCommitter) []int64 {
	out := make([]int64, 0, len(c.committed))
	for _, m := range c.committed {
		out = append(out, m.Offset)
	}
	return out
}

func TestKafkaQueue_DeleteCommitsInOrder(t *testing.T) {
	c := &fakeCommitter{}
	q := newTestKafkaQueue(c)
	h1 := q.track(kafkaMsg(0, 10))
	h2 := q.track(kafkaMsg(0, 11))
	h3 := q.track(kafkaMsg(0, 12))

	if err := q.Delete(context.Background(), h1); err != nil {
		t.Fatalf("Delete(h1) error = %v", err)
	}
	if got := committedOffsets(c); len(got) != 1 || got[0] != 10 {
		t.Fatalf("expected commit of offset 10, got %v", got)
	}

	// Offset 12 acknowledged while 11 is still in flight: the commit must
	// wait, otherwise 11 would be marked consumed.
	if err := q.Delete(context.Background(), h3); err != nil {
		t.Fatalf("Delete(h3) error = %v", err)
	}
	if got := committedOffsets(c); len(got) != 1 {
		t.Fatalf("expected commit held back, got %v", got)
	}

	// Acknowledging 11 completes the prefix; one commit at the highest
	// contiguous offset covers both.
	if err := q.Delete(context.Background(), h2); err != nil {
		t.Fatalf("Delete(h2) error = %v", err)
	}
	if got := committedOffsets(c); len(got) != 2 || got[1] != 12 {
		t.Fatalf("expected final commit at offset 12, got %v", got)
	}
}

func TestKafkaQueue_UnacknowledgedMessageHoldsBackCommits(t *testing.T) {
	c := &fakeCommitter{}
	q := newTestKafkaQueue(c)
	q.track(kafkaMsg(0, 10)) // never acknowledged (failed delivery)
	h2 := q.track(kafkaMsg(0, 11))

	if err := q.Delete(context.Background(), h2); err != nil {
		t.Fatalf("Delete(h2) error = %v", err)
	}

	// Nothing may be committed while offset 10 is outstanding: committing 11
	// would mark 10 consumed and it would never be redelivered.
	if len(c.committed) != 0 {
		t.Fatalf("expected no commits, got %v", committedOffsets(c))
	}
}

func TestKafkaQueue_PartitionsCommitIndependently(t *testing.T) {
	c := &fakeCommitter{}
	q := newTestKafkaQueue(c)
	q.track(kafkaMsg(0, 10)) // unacknowledged on partition 0
	h2 := q.track(kafkaMsg(1, 7))

	if err := q.Delete(context.Background(), h2); err != nil {
		t.Fatalf("Delete(h2) error = %v", err)
	}

	got := c.committed
	if len(got) != 1 || got[0].Partition != 1 || got[0].Offset != 7 {
		t.Fatalf("expected partition 1 offset 7 committed, got %+v", got)
	}
}

func TestKafkaQueue_DeleteUnknownHandle(t *testing.T) {
	q := newTestKafkaQueue(&fakeCommitter{})

	err := q.Delete(context.Background(), "notifications/0/99")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestKafkaQueue_CommitErrorPropagates(t *testing.T) {
	cause := errors.New("coordinator unavailable")
	q := newTestKafkaQueue(&fakeCommitter{err: cause})
	h := q.track(kafkaMsg(0, 10))

	if err := q.Delete(context.Background(), h); !errors.Is(err, cause) {
		t.Fatalf("expected commit error propagated, got %v", err)
	}
}
