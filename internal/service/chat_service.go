package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/internal/repository/unitofwork"
	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/rag"

	"github.com/google/uuid"
)

const (
	chatContextChunks = 5
	chatExcerptChars  = 200
	// chatHistoryMessages is how many earlier messages go back into the prompt.
	chatHistoryMessages = 6
)

// ChatRetriever is the slice of the vector store chat needs.
type ChatRetriever interface {
	Search(ctx context.Context, query string, k int, userId string) []rag.Document
}

type IChatService interface {
	Ask(ctx context.Context, userId string, req *dto.ChatRequest) (*dto.ChatResponse, error)
	ListSessions(ctx context.Context, userId string) ([]*dto.ChatSessionResponse, error)
	GetHistory(ctx context.Context, userId string, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	ClearChats(ctx context.Context, userId string) (*dto.ClearChatsResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	retriever  ChatRetriever
	llm        llm.LLMProvider
	logger     logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	retriever ChatRetriever,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		retriever:  retriever,
		llm:        llmProvider,
		logger:     log,
	}
}

// Ask answers from the caller's indexed reports. Without a working LLM it returns the
// retrieved context itself. Signed-in callers get both turns stored in a chat session;
// anonymous chat is not stored.
func (s *chatService) Ask(ctx context.Context, userId string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	question := strings.TrimSpace(req.Message)
	if question == "" {
		return nil, ErrInvalidQuery
	}

	session, history, err := s.openSession(ctx, userId, req.SessionId, question)
	if err != nil {
		return nil, err
	}

	docs := s.retriever.Search(ctx, question, chatContextChunks, userId)

	contents := make([]string, 0, len(docs))
	sources := make([]dto.ChatSource, 0, len(docs))
	for _, d := range docs {
		contents = append(contents, d.Content)
		sources = append(sources, dto.ChatSource{
			Source:  d.Source(),
			Score:   d.Score,
			Excerpt: excerpt(d.Content, chatExcerptChars),
		})
	}
	contextText := strings.Join(contents, "\n\n---\n\n")

	answer, err := s.llm.Generate(ctx, chatPrompt(contextText, history, question), llm.WithTemperature(0.3))
	if err != nil || strings.TrimSpace(answer) == "" {
		reason := "empty answer"
		if err != nil {
			reason = err.Error()
		}
		s.logger.Warn("ChatService", "Generation failed, returning context", map[string]interface{}{"error": reason})
		answer = "I could not generate an answer right now. Here is the most relevant content from your reports:\n\n" + contextText
	}

	res := &dto.ChatResponse{Role: string(entity.ChatRoleAssistant), Answer: answer, Sources: sources}
	if session != nil {
		if err := s.recordAnswer(ctx, session.Id, answer); err != nil {
			return nil, err
		}
		res.SessionId = session.Id.String()
	}
	return res, nil
}

// openSession resolves or creates the caller's session, stores the question and returns the
// messages that came before it.
func (s *chatService) openSession(ctx context.Context, userId, sessionId, question string) (*entity.ChatSession, []*entity.ChatMessage, error) {
	if userId == "" {
		if sessionId != "" {
			return nil, nil, ErrChatSessionNotFound
		}
		return nil, nil, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	var session *entity.ChatSession
	var history []*entity.ChatMessage
	if sessionId != "" {
		id, err := uuid.Parse(sessionId)
		if err != nil {
			return nil, nil, ErrChatSessionNotFound
		}
		session, err = uow.ChatSessionRepository().FindOwned(ctx, id, userId)
		if err != nil {
			return nil, nil, err
		}
		if session == nil {
			return nil, nil, ErrChatSessionNotFound
		}
		history, err = uow.ChatMessageRepository().FindAllBySession(ctx, id)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	if session == nil {
		session = &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     entity.ChatTitle(question),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, nil, err
		}
	}

	if err := uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          entity.ChatRoleUser,
		Content:       question,
		CreatedAt:     now,
	}); err != nil {
		return nil, nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, err
	}
	return session, history, nil
}

func (s *chatService) recordAnswer(ctx context.Context, sessionId uuid.UUID, answer string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	if err := uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		Role:          entity.ChatRoleAssistant,
		Content:       answer,
		CreatedAt:     now,
	}); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Touch(ctx, sessionId, now); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *chatService) ListSessions(ctx context.Context, userId string) ([]*dto.ChatSessionResponse, error) {
	sessions, err := s.uowFactory.NewUnitOfWork(ctx).ChatSessionRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatSessionResponse, 0, len(sessions))
	for _, cs := range sessions {
		res = append(res, &dto.ChatSessionResponse{
			Id:        cs.Id,
			Title:     cs.Title,
			CreatedAt: cs.CreatedAt,
			UpdatedAt: cs.UpdatedAt,
		})
	}
	return res, nil
}

func (s *chatService) GetHistory(ctx context.Context, userId string, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOwned(ctx, sessionId, userId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrChatSessionNotFound
	}

	messages, err := uow.ChatMessageRepository().FindAllBySession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, &dto.ChatMessageResponse{
			Id:        m.Id,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return res, nil
}

// ClearChats removes every session of the user together with its messages.
func (s *chatService) ClearChats(ctx context.Context, userId string) (*dto.ClearChatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return &dto.ClearChatsResponse{}, nil
	}

	ids := make([]uuid.UUID, len(sessions))
	for i, cs := range sessions {
		ids[i] = cs.Id
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteBySessions(ctx, ids); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().DeleteAllByUser(ctx, userId); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("ChatService", "Chats cleared", map[string]interface{}{"user_id": userId, "sessions": len(ids)})
	return &dto.ClearChatsResponse{DeletedSessions: len(ids)}, nil
}

func chatPrompt(contextText string, history []*entity.ChatMessage, question string) string {
	var conversation string
	if len(history) > 0 {
		if len(history) > chatHistoryMessages {
			history = history[len(history)-chatHistoryMessages:]
		}
		var sb strings.Builder
		sb.WriteString("\nConversation so far:\n")
		for _, m := range history {
			sb.WriteString(fmt.Sprintf("%s: %s\n", m.Role, m.Content))
		}
		conversation = sb.String()
	}

	return fmt.Sprintf(`You are an assistant helping users understand their startup research reports.
Answer the user's question based strictly on the provided context.
If the answer is not in the context, say so politely, but stay helpful for general questions on the topic.

Context from Reports:
%s
%s
Question:
%s`, contextText, conversation, question)
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
