package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/broker"
	"github.com/projectdolphin/notification-pipeline/internal/config"
	"github.com/projectdolphin/notification-pipeline/internal/health"
)

// Pool manages the lifecycle of all poll loops in one process. All loops
// consume the same queue; the broker's lease mechanism keeps any message
// with at most one active consumer, so the loops need no coordination
// beyond the shared (atomic) health tracker.
type Pool struct {
	loops []*Loop
	wg    sync.WaitGroup
}

func NewPool(
	cfg *config.Config,
	queue broker.Queue,
	processor *Processor,
	tracker *health.Tracker,
	onPollError func(),
	logger *zap.Logger,
) *Pool {
	n := cfg.Workers
	if n <= 0 {
		n = 1
	}

	loopCfg := LoopConfig{
		MaxMessages:    cfg.PollMaxMessages,
		Wait:           cfg.PollWaitTime,
		IdleDelay:      cfg.IdleDelay,
		BackoffInitial: cfg.BackoffInitial,
		BackoffMax:     cfg.BackoffMax,
	}

	loops := make([]*Loop, n)
	for i := range loops {
		loops[i] = NewLoop(i, queue, processor, tracker, loopCfg, onPollError,
			logger.With(zap.Int("worker_id", i)))
	}
	return &Pool{loops: loops}
}

// Start launches all loops as goroutines.
// The provided ctx is forwarded to every loop; cancelling it triggers a
// graceful shutdown of the entire pool.
func (p *Pool) Start(ctx context.Context) {
	for _, l := range p.loops {
		p.wg.Add(1)
		go func(l *Loop) {
			defer p.wg.Done()
			l.Run(ctx)
		}(l)
	}
}

// Wait blocks until every loop has returned after ctx is cancelled.
// Call this after cancelling the context so in-flight messages finish.
func (p *Pool) Wait() {
	p.wg.Wait()
}
