package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
	"github.com/projectdolphin/notification-pipeline/internal/ratelimiter"
	"github.com/projectdolphin/notification-pipeline/internal/transport"
)

// Dispatcher maps a parsed notification message plus its tenant routing
// config onto a transport call. It owns recipient resolution, the
// per-channel identity fallbacks, and rate limiting; it performs no retries
// and records no outcomes — both belong to its callers.
type Dispatcher struct {
	email    transport.EmailTransport
	topic    transport.TopicTransport
	limiters *ratelimiter.ChannelLimiters
	logger   *zap.Logger

	// Deployment-wide fallbacks used when the tenant config leaves the
	// matching identity empty.
	defaultSenderIdentity string
	defaultTopic          string
}

func NewDispatcher(
	email transport.EmailTransport,
	topic transport.TopicTransport,
	limiters *ratelimiter.ChannelLimiters,
	defaultSenderIdentity string,
	defaultTopic string,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		email:                 email,
		topic:                 topic,
		limiters:              limiters,
		defaultSenderIdentity: defaultSenderIdentity,
		defaultTopic:          defaultTopic,
		logger:                logger,
	}
}

// Dispatch routes the message to the transport matching its channel.
// Anything outside {EMAIL, SMS, PUSH} after upper-casing is rejected with
// ErrUnsupportedChannel.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg *domain.TenantDeliveryConfig, msg *domain.NotificationMessage) (*transport.Receipt, error) {
	switch ch := msg.Channel(); ch {
	case domain.ChannelEmail:
		return d.dispatchEmail(ctx, cfg, msg)
	case domain.ChannelSMS, domain.ChannelPush:
		return d.dispatchBroadcast(ctx, cfg, msg, ch)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedChannel, msg.OutputType)
	}
}

func (d *Dispatcher) dispatchEmail(ctx context.Context, cfg *domain.TenantDeliveryConfig, msg *domain.NotificationMessage) (*transport.Receipt, error) {
	recipients := msg.EmailRecipients()
	if len(recipients) == 0 {
		return nil, domain.ErrNoRecipient
	}
	if msg.Subject == "" {
		return nil, fmt.Errorf("%w: Subject", domain.ErrMissingField)
	}
	if msg.Message == "" {
		return nil, fmt.Errorf("%w: Message", domain.ErrMissingField)
	}

	sender := cfg.EmailSenderIdentity
	if sender == "" {
		sender = d.defaultSenderIdentity
	}

	if err := d.limiters.Wait(ctx, domain.ChannelEmail); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	receipt, err := d.email.SendEmail(ctx, sender, recipients, msg.Subject, msg.Message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	d.logger.Info("email dispatched",
		zap.String("application", msg.Application),
		zap.Strings("to", recipients),
		zap.String("sender_identity", sender),
	)
	return receipt, nil
}

// dispatchBroadcast handles SMS and PUSH. Delivery goes to the tenant's
// bulk-message topic, not to the individual PhoneNumber/PushToken — the
// transport fans out to all topic subscribers. The individual destination
// is logged for traceability only and its absence is not fatal.
func (d *Dispatcher) dispatchBroadcast(ctx context.Context, cfg *domain.TenantDeliveryConfig, msg *domain.NotificationMessage, ch domain.Channel) (*transport.Receipt, error) {
	if msg.Message == "" {
		return nil, fmt.Errorf("%w: Message", domain.ErrMissingField)
	}

	topic := cfg.BulkMessageTopic
	if topic == "" {
		topic = d.defaultTopic
	}

	if err := d.limiters.Wait(ctx, ch); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	receipt, err := d.topic.Publish(ctx, topic, msg.Message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	d.logger.Info("broadcast dispatched",
		zap.String("application", msg.Application),
		zap.String("channel", string(ch)),
		zap.String("topic", topic),
		zap.String("target", msg.BroadcastTarget()),
	)
	return receipt, nil
}
