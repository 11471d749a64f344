package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/broker"
	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

// SubmissionService validates client notification requests and enqueues the
// exact wire schema the worker consumes. It does no delivery work itself:
// scheduling fields are validated here and then carried opaquely on the
// queue.
type SubmissionService struct {
	producer broker.Producer
	logger   *zap.Logger
}

func NewSubmissionService(producer broker.Producer, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{producer: producer, logger: logger}
}

// Submit validates the request and places it on the queue.
func (s *SubmissionService) Submit(ctx context.Context, msg *domain.NotificationMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := s.producer.Enqueue(ctx, body); err != nil {
		return fmt.Errorf("enqueue message: %w", err)
	}

	s.logger.Info("notification enqueued",
		zap.String("application", msg.Application),
		zap.String("output_type", msg.OutputType),
	)
	return nil
}
