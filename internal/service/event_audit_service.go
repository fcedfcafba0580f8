package service

import (
	"context"

	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/pkg/events"
	pktNats "inzite-research-be/pkg/nats"
)

// EventSubscriber is satisfied by the NATS subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

type IEventAuditService interface {
	Start(ctx context.Context) error
	Handle(ctx context.Context, event events.Event) error
}

// eventAuditService writes every research lifecycle event to the audit log.
type eventAuditService struct {
	subscriber EventSubscriber
	logger     logger.ILogger
}

func NewEventAuditService(subscriber EventSubscriber, log logger.ILogger) IEventAuditService {
	return &eventAuditService{subscriber: subscriber, logger: log}
}

func (s *eventAuditService) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, pktNats.SubjectPrefix+".>", "research-audit", s.Handle)
}

func (s *eventAuditService) Handle(ctx context.Context, event events.Event) error {
	details := map[string]interface{}{"occurred_at": event.Timestamp()}
	for k, v := range event.Payload() {
		details[k] = v
	}

	switch event.EventType() {
	case events.ResearchFailed:
		s.logger.Warn("ResearchEvents", event.EventType(), details)
	default:
		s.logger.Info("ResearchEvents", event.EventType(), details)
	}
	return nil
}
