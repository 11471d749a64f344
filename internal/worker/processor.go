package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/dispatch"
	"github.com/projectdolphin/notification-pipeline/internal/domain"
	"github.com/projectdolphin/notification-pipeline/internal/health"
	"github.com/projectdolphin/notification-pipeline/internal/repository"
)

// unknownApplication is recorded when not even the application id can be
// recovered from a malformed body.
const unknownApplication = "unknown"

// MetricHooks carries the metric callback functions injected by main.
// Using a struct keeps the constructor signatures clean; nil fields are
// replaced with no-ops.
type MetricHooks struct {
	OnDelivered func(channel domain.Channel, latency time.Duration)
	OnFailed    func(channel domain.Channel)
	OnPollError func()
}

func (h MetricHooks) normalized() MetricHooks {
	if h.OnDelivered == nil {
		h.OnDelivered = func(domain.Channel, time.Duration) {}
	}
	if h.OnFailed == nil {
		h.OnFailed = func(domain.Channel) {}
	}
	if h.OnPollError == nil {
		h.OnPollError = func() {}
	}
	return h
}

// Processor drives one queue message through the delivery state machine:
// parse, resolve tenant config, dispatch, record the outcome. Every failure
// is absorbed at this boundary and turned into a failed audit record — the
// only thing escaping to the poll loop is the per-message verdict. The
// processor performs no internal retry: a failed message stays on the queue
// and the broker's redelivery policy governs further attempts.
type Processor struct {
	tenants    repository.TenantConfigStore
	dispatcher *dispatch.Dispatcher
	audit      repository.AuditStore
	tracker    *health.Tracker
	hooks      MetricHooks
	logger     *zap.Logger
}

func NewProcessor(
	tenants repository.TenantConfigStore,
	dispatcher *dispatch.Dispatcher,
	audit repository.AuditStore,
	tracker *health.Tracker,
	hooks MetricHooks,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		tenants:    tenants,
		dispatcher: dispatcher,
		audit:      audit,
		tracker:    tracker,
		hooks:      hooks.normalized(),
		logger:     logger,
	}
}

// Process returns the verdict for one raw queue body: true means delivered
// and safe to acknowledge, false means the caller must leave the message on
// the queue.
func (p *Processor) Process(ctx context.Context, body string) bool {
	start := time.Now()

	msg, err := domain.ParseMessage([]byte(body))
	if err != nil {
		return p.fail(ctx, unknownApplication, unknownApplication, body, err)
	}

	log := p.logger.With(
		zap.String("application", msg.Application),
		zap.String("output_type", msg.OutputType),
	)
	log.Debug("processing message")

	cfg, err := p.tenants.Resolve(ctx, msg.Application)
	if err != nil {
		log.Warn("tenant config resolution failed", zap.Error(err))
		return p.fail(ctx, msg.Application, string(msg.Channel()), body, err)
	}

	if _, err := p.dispatcher.Dispatch(ctx, cfg, msg); err != nil {
		log.Warn("dispatch failed", zap.Error(err))
		return p.fail(ctx, msg.Application, string(msg.Channel()), body, err)
	}

	p.record(ctx, msg.Application, body, domain.AuditDelivered, nil)
	p.tracker.RecordMessageProcessed()
	p.hooks.OnDelivered(msg.Channel(), time.Since(start))
	log.Info("message delivered")
	return true
}

// fail converts any processing error into the Failed terminal state: one
// audit record, counters, and a false verdict. The message itself is left
// untouched for the broker's redelivery or dead-letter policy.
func (p *Processor) fail(ctx context.Context, applicationID, channel, body string, cause error) bool {
	errStr := cause.Error()
	p.record(ctx, applicationID, body, domain.AuditFailed, &errStr)
	p.tracker.RecordError()
	p.hooks.OnFailed(domain.Channel(channel))
	p.logger.Warn("message processing failed",
		zap.String("application", applicationID),
		zap.Error(cause),
	)
	return false
}

// record appends one audit record. The audit store is a best-effort side
// channel: a write failure is logged and swallowed so it can never overturn
// the delivery verdict already computed.
func (p *Processor) record(ctx context.Context, applicationID, body string, status domain.AuditStatus, errStr *string) {
	rec := &domain.AuditRecord{
		ID:            uuid.New().String(),
		ApplicationID: applicationID,
		Timestamp:     time.Now().UTC(),
		Status:        status,
		Payload:       body,
		Error:         errStr,
	}
	if err := p.audit.Record(ctx, rec); err != nil {
		p.logger.Error("audit write failed",
			zap.String("application", applicationID),
			zap.Error(err),
		)
	}
}
