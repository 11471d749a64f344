package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

// kafkaCommitter is the slice of kafka.Reader that Delete depends on.
// Narrowed to an interface so commit-ordering logic is testable without a
// live broker.
type kafkaCommitter interface {
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type partitionKey struct {
	topic     string
	partition int
}

// kafkaPartition tracks the fetched-but-uncommitted messages of one
// partition in offset order, plus which of them are acknowledged.
type kafkaPartition struct {
	order []kafka.Message
	acked map[int64]bool
}

// KafkaQueue adapts a Kafka consumer group to the Queue contract: Poll
// fetches uncommitted messages, Delete acknowledges one of them.
//
// Committing offset N in Kafka marks every offset <= N in that partition
// consumed, so Delete must not commit past an unacknowledged message: a
// failed message with a later success committed over it would never be
// redelivered. Delete therefore only commits the contiguous prefix of
// acknowledged offsets per partition; an unacknowledged message holds back
// all commits behind it until the group rebalances or the process restarts,
// at which point everything uncommitted is redelivered. That is the same
// at-least-once guarantee as a visibility timeout, at coarser granularity.
// Kafka has no redrive policy, so the dead-letter counter never moves on
// this adapter.
type KafkaQueue struct {
	reader    *kafka.Reader
	committer kafkaCommitter

	mu         sync.Mutex
	pending    map[string]kafka.Message
	partitions map[partitionKey]*kafkaPartition
}

func NewKafkaQueue(brokers []string, topic, groupID string) *KafkaQueue {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &KafkaQueue{
		reader:     reader,
		committer:  reader,
		pending:    make(map[string]kafka.Message),
		partitions: make(map[partitionKey]*kafkaPartition),
	}
}

func (q *KafkaQueue) Poll(ctx context.Context, maxMessages int, wait time.Duration) ([]Message, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	var msgs []Message
	for len(msgs) < maxMessages {
		m, err := q.reader.FetchMessage(fetchCtx)
		if err != nil {
			// The wait window closing is an empty poll, not a failure.
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			if len(msgs) > 0 {
				break
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrQueuePoll, err)
		}

		msgs = append(msgs, Message{Body: string(m.Value), ReceiptHandle: q.track(m)})
	}
	return msgs, nil
}

// track registers one fetched message for later acknowledgement and returns
// its receipt handle.
func (q *KafkaQueue) track(m kafka.Message) string {
	handle := fmt.Sprintf("%s/%d/%d", m.Topic, m.Partition, m.Offset)

	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending[handle] = m
	key := partitionKey{topic: m.Topic, partition: m.Partition}
	p, ok := q.partitions[key]
	if !ok {
		p = &kafkaPartition{acked: make(map[int64]bool)}
		q.partitions[key] = p
	}
	p.order = append(p.order, m)
	return handle
}

// Delete acknowledges one message. The commit is issued only when the
// message completes a contiguous acknowledged prefix of its partition;
// otherwise it is held until the earlier offsets are acknowledged, keeping
// every unacknowledged message above the committed offset and therefore
// eligible for redelivery.
func (q *KafkaQueue) Delete(ctx context.Context, receiptHandle string) error {
	q.mu.Lock()
	m, ok := q.pending[receiptHandle]
	if !ok {
		q.mu.Unlock()
		return fmt.Errorf("%w: unknown receipt handle %q", domain.ErrInvalidArgument, receiptHandle)
	}
	delete(q.pending, receiptHandle)

	key := partitionKey{topic: m.Topic, partition: m.Partition}
	p := q.partitions[key]
	p.acked[m.Offset] = true

	// Advance past the acknowledged prefix; the last popped message carries
	// the highest offset safe to commit.
	var commit *kafka.Message
	for len(p.order) > 0 && p.acked[p.order[0].Offset] {
		head := p.order[0]
		delete(p.acked, head.Offset)
		p.order = p.order[1:]
		commit = &head
	}
	if len(p.order) == 0 {
		delete(q.partitions, key)
	}
	q.mu.Unlock()

	if commit == nil {
		// An earlier fetched message is still unacknowledged; committing now
		// would mark it consumed and lose it.
		return nil
	}

	if err := q.committer.CommitMessages(ctx, *commit); err != nil {
		return fmt.Errorf("commit message %s: %w", receiptHandle, err)
	}
	return nil
}

func (q *KafkaQueue) Close() error {
	return q.reader.Close()
}

// KafkaProducer implements Producer on a Kafka writer, for deployments where
// the submission API and worker share a Kafka topic instead of Postgres.
type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaProducer) Enqueue(ctx context.Context, body []byte) error {
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// compile-time checks
var (
	_ Queue    = (*KafkaQueue)(nil)
	_ Producer = (*KafkaProducer)(nil)
)
