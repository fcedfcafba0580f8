package service

import (
	"context"
	"testing"

	"inzite-research-be/pkg/events"
	pktNats "inzite-research-be/pkg/nats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	entries []string
}

func (c *captureLogger) Debug(module, message string, details map[string]interface{}) {}
func (c *captureLogger) Info(module, message string, details map[string]interface{}) {
	c.entries = append(c.entries, "info:"+message)
}
func (c *captureLogger) Warn(module, message string, details map[string]interface{}) {
	c.entries = append(c.entries, "warn:"+message)
}
func (c *captureLogger) Error(module, message string, details map[string]interface{}) {}
func (c *captureLogger) Sync() error                                                  { return nil }

type fakeSubscriber struct {
	subject, durable string
	handler          pktNats.EventHandler
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error {
	f.subject, f.durable, f.handler = subject, durableName, handler
	return nil
}

func TestEventAuditService(t *testing.T) {
	sub := &fakeSubscriber{}
	log := &captureLogger{}
	svc := NewEventAuditService(sub, log)

	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, "research.>", sub.subject)
	assert.Equal(t, "research-audit", sub.durable)

	require.NoError(t, sub.handler(context.Background(), events.NewResearchCompleted("s1", "u1", 2)))
	require.NoError(t, sub.handler(context.Background(), events.NewResearchFailed("s2", "", "db down")))

	assert.Equal(t, []string{"info:RESEARCH_COMPLETED", "warn:RESEARCH_FAILED"}, log.entries)
}
