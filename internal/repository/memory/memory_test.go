package memory

import (
	"context"
	"testing"
	"time"

	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepository_GapFilling(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.CreateWithNextID(ctx, &entity.Report{Idea: "r"}))
	}
	require.NoError(t, repo.Delete(ctx, 2))

	r := &entity.Report{Idea: "gap"}
	require.NoError(t, repo.CreateWithNextID(ctx, r))
	assert.Equal(t, 2, r.Id)
	assert.JSONEq(t, "{}", string(r.ResultJson))

	r.Idea = "mutated after save"
	stored, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "gap", stored.Idea)
}

func TestReportRepository_Ordering(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, repo.CreateWithNextID(ctx, &entity.Report{Idea: "old", CreatedAt: base.Add(-time.Hour)}))
	require.NoError(t, repo.CreateWithNextID(ctx, &entity.Report{Idea: "new", CreatedAt: base, UserId: "u"}))

	latest, err := repo.FindLatest(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "new", latest.Idea)

	none, err := repo.FindLatest(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, none)

	page, err := repo.FindAll(ctx, "", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestSessionRepository_TerminalIsFinal(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	ctx := context.Background()

	s := &entity.ResearchSession{SessionId: "x", Status: entity.SessionStatusProcessing}
	require.NoError(t, repo.Create(ctx, s))

	s.Status = entity.SessionStatusFailed
	s.Error = "boom"
	require.NoError(t, repo.Update(ctx, s))

	s.Status = entity.SessionStatusCompleted
	assert.ErrorIs(t, repo.Update(ctx, s), contract.ErrSessionNotActive)

	stored, err := repo.FindByID(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusFailed, stored.Status)

	pending, err := repo.FindAllProcessing(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSessionRepository_CreateDuplicate(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.ResearchSession{SessionId: "x", Query: "first"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.ResearchSession{SessionId: "x", Query: "second"}), contract.ErrDuplicateSession)

	stored, err := repo.FindByID(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "first", stored.Query)
}

func TestDocumentChunkRepository_Search(t *testing.T) {
	repo := NewDocumentChunkRepository()
	ctx := context.Background()

	require.NoError(t, repo.CreateBulk(ctx, []*entity.DocumentChunk{
		{Content: "a", Embedding: []float32{1, 0}},
		{Content: "b", Embedding: []float32{0, 1}},
		{Content: "c", Embedding: []float32{0.7, 0.7}},
	}))

	res, err := repo.SearchSimilarWithScore(ctx, []float32{1, 0}, 2, "")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].Chunk.Content)
	assert.Equal(t, "c", res[1].Chunk.Content)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestChatRepositories(t *testing.T) {
	sessions := NewChatSessionRepository()
	messages := NewChatMessageRepository()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	first := &entity.ChatSession{Id: uuid.New(), UserId: "alice", Title: "first", CreatedAt: base, UpdatedAt: base}
	second := &entity.ChatSession{Id: uuid.New(), UserId: "alice", Title: "second", CreatedAt: base, UpdatedAt: base.Add(time.Minute)}
	require.NoError(t, sessions.Create(ctx, first))
	require.NoError(t, sessions.Create(ctx, second))

	tests := []struct {
		name   string
		userId string
		found  bool
	}{
		{"owner", "alice", true},
		{"other user", "bob", false},
		{"anonymous", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sessions.FindOwned(ctx, first.Id, tt.userId)
			require.NoError(t, err)
			assert.Equal(t, tt.found, got != nil)
		})
	}

	list, err := sessions.FindAllByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)

	require.NoError(t, sessions.Touch(ctx, first.Id, base.Add(time.Hour)))
	list, err = sessions.FindAllByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "first", list[0].Title)

	// Same timestamp keeps insertion order.
	for _, content := range []string{"q", "a"} {
		require.NoError(t, messages.Create(ctx, &entity.ChatMessage{ChatSessionId: first.Id, Content: content, CreatedAt: base}))
	}
	history, err := messages.FindAllBySession(ctx, first.Id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "q", history[0].Content)
	assert.Equal(t, "a", history[1].Content)

	require.NoError(t, messages.DeleteBySessions(ctx, []uuid.UUID{first.Id}))
	require.NoError(t, sessions.DeleteAllByUser(ctx, "alice"))
	history, err = messages.FindAllBySession(ctx, first.Id)
	require.NoError(t, err)
	assert.Empty(t, history)
	list, err = sessions.FindAllByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}
