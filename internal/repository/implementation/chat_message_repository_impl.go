package implementation

import (
	"context"

	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/mapper"
	"inzite-research-be/internal/model"
	"inzite-research-be/internal/repository/contract"
	"inzite-research-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.ChatMessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ChatMessageToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) FindAllBySession(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error) {
	var models []*model.ChatMessage
	query := r.db.WithContext(ctx)
	for _, spec := range []specification.Specification{
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	} {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	messages := make([]*entity.ChatMessage, len(models))
	for i, m := range models {
		messages[i] = r.mapper.ChatMessageToEntity(m)
	}
	return messages, nil
}

func (r *ChatMessageRepositoryImpl) DeleteBySessions(ctx context.Context, sessionIds []uuid.UUID) error {
	if len(sessionIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("chat_session_id IN ?", sessionIds).Delete(&model.ChatMessage{}).Error
}
