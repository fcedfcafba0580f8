package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/pkg/rag"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRetriever struct {
	docs   []rag.Document
	k      int
	userId string
}

func (f *fixedRetriever) Search(ctx context.Context, query string, k int, userId string) []rag.Document {
	f.k, f.userId = k, userId
	return f.docs
}

func TestChatService_Ask(t *testing.T) {
	docs := []rag.Document{
		{Content: "Rover dominates urban pet sitting.", Metadata: map[string]interface{}{"source": "report"}, Score: 0.91},
		{Content: "Trust is the main adoption barrier.", Metadata: map[string]interface{}{"source": "https://survey.io"}, Score: 0.72},
	}

	tests := []struct {
		name       string
		llm        *stubLLM
		wantAnswer string
		contains   []string
	}{
		{name: "llm answers", llm: &stubLLM{answer: "Rover leads."}, wantAnswer: "Rover leads."},
		{name: "llm down returns context", llm: &stubLLM{err: errors.New("503")}, contains: []string{"Rover dominates", "\n\n---\n\n", "Trust is the main"}},
		{name: "blank answer returns context", llm: &stubLLM{answer: "  "}, contains: []string{"Rover dominates"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retriever := &fixedRetriever{docs: docs}
			factory, _ := newMemoryFactory()
			svc := NewChatService(factory, retriever, tt.llm, logger.NewNopLogger())

			res, err := svc.Ask(context.Background(), "u1", &dto.ChatRequest{Message: "Who leads the market?"})
			require.NoError(t, err)

			assert.Equal(t, 5, retriever.k)
			assert.Equal(t, "u1", retriever.userId)
			if tt.wantAnswer != "" {
				assert.Equal(t, tt.wantAnswer, res.Answer)
			}
			for _, c := range tt.contains {
				assert.Contains(t, res.Answer, c)
			}
			assert.Equal(t, "assistant", res.Role)
			assert.NotEmpty(t, res.SessionId)
			require.Len(t, res.Sources, 2)
			assert.Equal(t, "report", res.Sources[0].Source)
			assert.Equal(t, 0.91, res.Sources[0].Score)
		})
	}
}

func TestChatService_PromptCarriesContext(t *testing.T) {
	llmStub := &stubLLM{answer: "ok"}
	factory, _ := newMemoryFactory()
	svc := NewChatService(factory, &fixedRetriever{docs: []rag.Document{{Content: "context line"}}}, llmStub, logger.NewNopLogger())

	_, err := svc.Ask(context.Background(), "", &dto.ChatRequest{Message: "question?"})
	require.NoError(t, err)
	assert.Contains(t, llmStub.prompt, "context line")
	assert.Contains(t, llmStub.prompt, "question?")
}

func TestChatService_EmptyMessage(t *testing.T) {
	factory, _ := newMemoryFactory()
	svc := NewChatService(factory, &fixedRetriever{}, &stubLLM{}, logger.NewNopLogger())
	_, err := svc.Ask(context.Background(), "", &dto.ChatRequest{Message: " "})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestChatService_StoresConversation(t *testing.T) {
	factory, _ := newMemoryFactory()
	llmStub := &stubLLM{answer: "Rover leads."}
	svc := NewChatService(factory, &fixedRetriever{}, llmStub, logger.NewNopLogger())
	ctx := context.Background()

	long := strings.Repeat("q", 60)
	first, err := svc.Ask(ctx, "alice", &dto.ChatRequest{Message: long})
	require.NoError(t, err)
	require.NotEmpty(t, first.SessionId)

	second, err := svc.Ask(ctx, "alice", &dto.ChatRequest{Message: "And pricing?", SessionId: first.SessionId})
	require.NoError(t, err)
	assert.Equal(t, first.SessionId, second.SessionId)
	assert.Contains(t, llmStub.prompt, "Conversation so far:")
	assert.Contains(t, llmStub.prompt, "assistant: Rover leads.")

	sessions, err := svc.ListSessions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, strings.Repeat("q", 50)+"...", sessions[0].Title)

	history, err := svc.GetHistory(ctx, "alice", sessions[0].Id)
	require.NoError(t, err)
	roles := make([]string, len(history))
	for i, m := range history {
		roles[i] = m.Role
	}
	assert.Equal(t, []string{"user", "assistant", "user", "assistant"}, roles)
	assert.Equal(t, "And pricing?", history[2].Content)
}

func TestChatService_SessionOwnership(t *testing.T) {
	factory, _ := newMemoryFactory()
	svc := NewChatService(factory, &fixedRetriever{}, &stubLLM{answer: "ok"}, logger.NewNopLogger())
	ctx := context.Background()

	res, err := svc.Ask(ctx, "alice", &dto.ChatRequest{Message: "hello"})
	require.NoError(t, err)
	id := uuid.MustParse(res.SessionId)

	tests := []struct {
		name      string
		userId    string
		sessionId string
	}{
		{name: "other user continues", userId: "mallory", sessionId: res.SessionId},
		{name: "anonymous continues", userId: "", sessionId: res.SessionId},
		{name: "unknown session", userId: "alice", sessionId: uuid.NewString()},
		{name: "malformed id", userId: "alice", sessionId: "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Ask(ctx, tt.userId, &dto.ChatRequest{Message: "hi", SessionId: tt.sessionId})
			assert.ErrorIs(t, err, ErrChatSessionNotFound)
		})
	}

	_, err = svc.GetHistory(ctx, "mallory", id)
	assert.ErrorIs(t, err, ErrChatSessionNotFound)

	others, err := svc.ListSessions(ctx, "mallory")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestChatService_AnonymousIsNotStored(t *testing.T) {
	factory, _ := newMemoryFactory()
	svc := NewChatService(factory, &fixedRetriever{}, &stubLLM{answer: "ok"}, logger.NewNopLogger())

	res, err := svc.Ask(context.Background(), "", &dto.ChatRequest{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Answer)
	assert.Empty(t, res.SessionId)
}

func TestChatService_ClearChats(t *testing.T) {
	factory, store := newMemoryFactory()
	svc := NewChatService(factory, &fixedRetriever{}, &stubLLM{answer: "ok"}, logger.NewNopLogger())
	ctx := context.Background()

	for _, u := range []string{"alice", "alice", "bob"} {
		_, err := svc.Ask(ctx, u, &dto.ChatRequest{Message: "hello"})
		require.NoError(t, err)
	}
	bobSessions, err := svc.ListSessions(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobSessions, 1)

	cleared, err := svc.ClearChats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, cleared.DeletedSessions)

	left, err := svc.ListSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, left)

	bobHistory, err := svc.GetHistory(ctx, "bob", bobSessions[0].Id)
	require.NoError(t, err)
	assert.Len(t, bobHistory, 2)

	remaining, err := store.ChatMessages.FindAllBySession(ctx, bobSessions[0].Id)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	again, err := svc.ClearChats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, again.DeletedSessions)
}
