package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/internal/repository/contract"
	"inzite-research-be/internal/repository/unitofwork"
	"inzite-research-be/pkg/research/state"

	"github.com/google/uuid"
)

type IResearchService interface {
	Start(ctx context.Context, req *dto.StartResearchRequest) (*dto.StartResearchResponse, error)
	GetStatus(ctx context.Context, sessionId string) (*dto.ResearchStatusResponse, error)
}

type researchService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewResearchService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IResearchService {
	return &researchService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

// Start records the session as processing before publishing the trigger, so the
// caller can poll straight away.
func (s *researchService) Start(ctx context.Context, req *dto.StartResearchRequest) (*dto.StartResearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrInvalidQuery
	}

	sessionId := strings.TrimSpace(req.SessionId)
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).ResearchSessionRepository()
	existing, err := repo.FindByID(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSessionExists
	}

	now := time.Now()
	session := &entity.ResearchSession{
		SessionId:   sessionId,
		UserId:      req.UserId,
		Query:       query,
		Status:      entity.SessionStatusProcessing,
		CurrentStep: state.StageInitializing.Label(),
		Stage:       string(state.StageInitializing),
		Logs:        []string{state.StageInitializing.Label()},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(ctx, session); err != nil {
		if errors.Is(err, contract.ErrDuplicateSession) {
			return nil, ErrSessionExists
		}
		return nil, fmt.Errorf("create session: %w", err)
	}

	payload, err := json.Marshal(dto.PublishResearchMessage{Query: query, SessionId: sessionId, UserId: req.UserId})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		session.Status = entity.SessionStatusFailed
		session.Stage = string(state.StageFailed)
		session.CurrentStep = state.StageFailed.Label()
		session.Error = "failed to start research: " + err.Error()
		session.Logs = append(session.Logs, session.Error)
		if uerr := repo.Update(ctx, session); uerr != nil {
			s.logger.Error("ResearchService", "Could not record trigger failure", map[string]interface{}{"session_id": sessionId, "error": uerr.Error()})
		}
		return nil, fmt.Errorf("publish research trigger: %w", err)
	}

	s.logger.Info("ResearchService", "Research started", map[string]interface{}{"session_id": sessionId})

	return &dto.StartResearchResponse{
		SessionId:   sessionId,
		Status:      string(session.Status),
		CurrentStep: session.CurrentStep,
	}, nil
}

func (s *researchService) GetStatus(ctx context.Context, sessionId string) (*dto.ResearchStatusResponse, error) {
	session, err := s.uowFactory.NewUnitOfWork(ctx).ResearchSessionRepository().FindByID(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	logs := session.Logs
	if logs == nil {
		logs = []string{}
	}

	res := &dto.ResearchStatusResponse{
		SessionId:   session.SessionId,
		Status:      string(session.Status),
		CurrentStep: session.CurrentStep,
		Stage:       session.Stage,
		Error:       session.Error,
		Logs:        logs,
	}
	if session.Status == entity.SessionStatusCompleted {
		res.ResultId = session.ResultId
	}
	return res, nil
}
