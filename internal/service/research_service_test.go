package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResearchService_StartThenPollIsProcessing(t *testing.T) {
	factory, _ := newMemoryFactory()
	pub := &recordingPublisher{}
	svc := NewResearchService(factory, pub, logger.NewNopLogger())

	res, err := svc.Start(context.Background(), &dto.StartResearchRequest{Query: "AI pet-sitting marketplace", SessionId: "abc-123", UserId: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "abc-123", res.SessionId)
	assert.Equal(t, "processing", res.Status)

	status, err := svc.GetStatus(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "processing", status.Status)
	assert.Equal(t, "Initializing Research Workflow...", status.CurrentStep)
	assert.Nil(t, status.ResultId)

	require.Len(t, pub.payloads, 1)
	var msg dto.PublishResearchMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, dto.PublishResearchMessage{Query: "AI pet-sitting marketplace", SessionId: "abc-123", UserId: "u1"}, msg)
}

func TestResearchService_Start(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.StartResearchRequest
		pubErr  error
		wantErr error
	}{
		{name: "blank query", req: dto.StartResearchRequest{Query: "   "}, wantErr: ErrInvalidQuery},
		{name: "generated session id", req: dto.StartResearchRequest{Query: "idea"}},
		{name: "publish failure", req: dto.StartResearchRequest{Query: "idea", SessionId: "s-pub"}, pubErr: errors.New("bus closed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, _ := newMemoryFactory()
			svc := NewResearchService(factory, &recordingPublisher{err: tt.pubErr}, logger.NewNopLogger())

			res, err := svc.Start(context.Background(), &tt.req)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.pubErr != nil:
				require.Error(t, err)
				session := loadSession(t, factory, tt.req.SessionId)
				assert.Equal(t, entity.SessionStatusFailed, session.Status)
				assert.Contains(t, session.Error, "bus closed")
			default:
				require.NoError(t, err)
				assert.Len(t, res.SessionId, 36)
			}
		})
	}
}

func TestResearchService_DuplicateSessionId(t *testing.T) {
	factory, _ := newMemoryFactory()
	svc := NewResearchService(factory, &recordingPublisher{}, logger.NewNopLogger())

	_, err := svc.Start(context.Background(), &dto.StartResearchRequest{Query: "idea", SessionId: "dup"})
	require.NoError(t, err)
	_, err = svc.Start(context.Background(), &dto.StartResearchRequest{Query: "idea", SessionId: "dup"})
	assert.ErrorIs(t, err, ErrSessionExists)
}

func TestResearchService_DuplicateSessionIdLosesRace(t *testing.T) {
	factory, _ := newMemoryFactory()
	pub := &recordingPublisher{}
	// Both starts pass the existence check, as two concurrent requests would.
	svc := NewResearchService(staleReadsFactory{factory}, pub, logger.NewNopLogger())

	_, err := svc.Start(context.Background(), &dto.StartResearchRequest{Query: "idea", SessionId: "dup"})
	require.NoError(t, err)
	_, err = svc.Start(context.Background(), &dto.StartResearchRequest{Query: "idea", SessionId: "dup"})
	assert.ErrorIs(t, err, ErrSessionExists)
	assert.Len(t, pub.payloads, 1)
}

func TestResearchService_GetStatus(t *testing.T) {
	factory, _ := newMemoryFactory()
	svc := NewResearchService(factory, &recordingPublisher{}, logger.NewNopLogger())

	_, err := svc.GetStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	id := 4
	repo := factory.NewUnitOfWork(context.Background()).ResearchSessionRepository()
	require.NoError(t, repo.Create(context.Background(), &entity.ResearchSession{
		SessionId:   "done",
		Status:      entity.SessionStatusCompleted,
		CurrentStep: "Research Completed",
		ResultId:    &id,
	}))

	status, err := svc.GetStatus(context.Background(), "done")
	require.NoError(t, err)
	assert.Equal(t, "completed", status.Status)
	require.NotNil(t, status.ResultId)
	assert.Equal(t, 4, *status.ResultId)
	assert.NotNil(t, status.Logs)
}
