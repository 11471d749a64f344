package broker

import (
	"context"
	"sync"
	"time"
)

// MockQueue is a hand-written, in-memory implementation of Queue and
// Producer used in unit tests. Poll results are scripted in order via
// AddBatch and AddPollError; once the script is exhausted every further
// poll is empty. No mock-generation library needed.
type MockQueue struct {
	mu      sync.Mutex
	results []mockPollResult

	// Recorded calls, inspected by tests.
	PollCalls int
	Deleted   []string
	Enqueued  []string

	DeleteErr error
}

type mockPollResult struct {
	msgs []Message
	err  error
}

func NewMockQueue() *MockQueue {
	return &MockQueue{}
}

// AddBatch scripts one successful poll returning the given messages.
func (m *MockQueue) AddBatch(msgs ...Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, mockPollResult{msgs: msgs})
}

// AddPollError scripts one failing poll.
func (m *MockQueue) AddPollError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, mockPollResult{err: err})
}

func (m *MockQueue) Poll(_ context.Context, _ int, _ time.Duration) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollCalls++
	if len(m.results) == 0 {
		return nil, nil
	}
	next := m.results[0]
	m.results = m.results[1:]
	return next.msgs, next.err
}

func (m *MockQueue) Delete(_ context.Context, receiptHandle string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, receiptHandle)
	return nil
}

func (m *MockQueue) Enqueue(_ context.Context, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Enqueued = append(m.Enqueued, string(body))
	return nil
}

// compile-time checks
var (
	_ Queue    = (*MockQueue)(nil)
	_ Producer = (*MockQueue)(nil)
)
