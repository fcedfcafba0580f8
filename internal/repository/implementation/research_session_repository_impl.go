package implementation

import (
	"context"
	"errors"
	"strings"
	"time"

	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/mapper"
	"inzite-research-be/internal/model"
	"inzite-research-be/internal/repository/contract"
	"inzite-research-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ResearchSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ResearchSessionMapper
}

func NewResearchSessionRepository(db *gorm.DB) contract.ResearchSessionRepository {
	return &ResearchSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewResearchSessionMapper(),
	}
}

func (r *ResearchSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ResearchSessionRepositoryImpl) Create(ctx context.Context, session *entity.ResearchSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return contract.ErrDuplicateSession
		}
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

// isUniqueViolation covers translated gorm errors and the raw postgres and sqlite messages.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func (r *ResearchSessionRepositoryImpl) FindByID(ctx context.Context, sessionId string) (*entity.ResearchSession, error) {
	var m model.ResearchSession
	query := r.applySpecifications(r.db.WithContext(ctx), specification.BySessionID{SessionID: sessionId})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ResearchSessionRepositoryImpl) Update(ctx context.Context, session *entity.ResearchSession) error {
	m := r.mapper.ToModel(session)

	query := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.ResearchSession{}),
		specification.BySessionID{SessionID: session.SessionId},
		specification.ByStatus{Status: string(entity.SessionStatusProcessing)},
	)
	now := time.Now()
	res := query.Updates(map[string]interface{}{
		"status":       m.Status,
		"current_step": m.CurrentStep,
		"stage":        m.Stage,
		"logs":         m.Logs,
		"checkpoint":   m.Checkpoint,
		"result_id":    m.ResultId,
		"error":        m.Error,
		"updated_at":   now,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrSessionNotActive
	}
	session.UpdatedAt = now
	return nil
}

func (r *ResearchSessionRepositoryImpl) FindAllProcessing(ctx context.Context) ([]*entity.ResearchSession, error) {
	var models []*model.ResearchSession
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByStatus{Status: string(entity.SessionStatusProcessing)},
		specification.OrderBy{Field: "created_at"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	sessions := make([]*entity.ResearchSession, len(models))
	for i, m := range models {
		sessions[i] = r.mapper.ToEntity(m)
	}
	return sessions, nil
}
