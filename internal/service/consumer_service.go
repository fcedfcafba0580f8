package service

import (
	"context"
	"encoding/json"
	"sync"

	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	// Wait blocks until every workflow started by the consumer has returned.
	Wait()
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	workflow   IWorkflowService
	logger     logger.ILogger
	running    sync.WaitGroup
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	workflow IWorkflowService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		workflow:   workflow,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) Wait() {
	cs.running.Wait()
}

// processMessage acks as soon as the trigger is decoded. The workflow records its own
// progress, so redelivery is not needed and would only start a duplicate run.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishResearchMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal trigger", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}
	msg.Ack()

	cs.logger.Info("Consumer", "Research triggered", map[string]interface{}{"session_id": payload.SessionId})

	cs.running.Add(1)
	go func() {
		defer cs.running.Done()
		if err := cs.workflow.Execute(ctx, payload); err != nil {
			cs.logger.Error("Consumer", "Workflow ended with error", map[string]interface{}{
				"session_id": payload.SessionId,
				"error":      err.Error(),
			})
		}
	}()
}
