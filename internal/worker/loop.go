package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/broker"
	"github.com/projectdolphin/notification-pipeline/internal/health"
)

// LoopConfig bounds one poll loop's interaction with the queue.
type LoopConfig struct {
	MaxMessages    int
	Wait           time.Duration
	IdleDelay      time.Duration
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// Loop is the top-level poll-drive-acknowledge control flow. One Loop runs
// in a single goroutine; several may share the same queue (via Pool or
// separate processes) — the broker's visibility timeout keeps concurrent
// consumers from holding the same message.
type Loop struct {
	id          int
	queue       broker.Queue
	processor   *Processor
	tracker     *health.Tracker
	onPollError func()
	logger      *zap.Logger

	maxMessages int
	wait        time.Duration
	idleDelay   time.Duration
	backoff     *pollBackoff

	// sleep is swappable so tests can observe delays without real time passing.
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewLoop(
	id int,
	queue broker.Queue,
	processor *Processor,
	tracker *health.Tracker,
	cfg LoopConfig,
	onPollError func(),
	logger *zap.Logger,
) *Loop {
	if onPollError == nil {
		onPollError = func() {}
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 1
	}
	if cfg.IdleDelay <= 0 {
		cfg.IdleDelay = time.Second
	}
	return &Loop{
		id:          id,
		queue:       queue,
		processor:   processor,
		tracker:     tracker,
		onPollError: onPollError,
		logger:      logger,
		maxMessages: cfg.MaxMessages,
		wait:        cfg.Wait,
		idleDelay:   cfg.IdleDelay,
		backoff:     newPollBackoff(cfg.BackoffInitial, cfg.BackoffMax),
		sleep:       ctxSleep,
	}
}

// Run blocks until ctx is cancelled. Poll failures back off exponentially;
// individual message failures never halt the loop and never touch the
// backoff — one poisoned message must not stop the pipeline.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("worker loop started", zap.Int("id", l.id))

	for {
		if ctx.Err() != nil {
			l.logger.Info("worker loop stopping", zap.Int("id", l.id))
			return
		}

		msgs, err := l.queue.Poll(ctx, l.maxMessages, l.wait)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("worker loop stopping", zap.Int("id", l.id))
				return
			}
			l.tracker.RecordError()
			l.onPollError()
			delay := l.backoff.Next()
			l.logger.Warn("queue poll failed, backing off",
				zap.Duration("delay", delay), zap.Error(err))
			if !l.sleep(ctx, delay) {
				return
			}
			continue
		}

		// Nothing was dequeued on a failed poll, so only a successful one
		// resets the backoff.
		l.backoff.Reset()

		if len(msgs) == 0 {
			// Throttle, not failure.
			if !l.sleep(ctx, l.idleDelay) {
				return
			}
			continue
		}

		// Finish the claimed batch even if shutdown begins mid-flight; a
		// message is acknowledged only after a confirmed delivered verdict.
		drainCtx := context.WithoutCancel(ctx)
		for _, m := range msgs {
			if !l.processor.Process(drainCtx, m.Body) {
				continue // left on the queue for broker redelivery or DLQ
			}
			if err := l.queue.Delete(drainCtx, m.ReceiptHandle); err != nil {
				l.logger.Error("failed to delete acknowledged message",
					zap.String("receipt_handle", m.ReceiptHandle), zap.Error(err))
			}
		}
	}
}

// ctxSleep waits for d, returning false if ctx was cancelled first.
func ctxSleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
