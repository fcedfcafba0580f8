package service

import (
	"context"

	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/repository/unitofwork"
)

const defaultReportPageSize = 20

type IReportService interface {
	GetLatest(ctx context.Context, userId string) (*dto.ReportResponse, error)
	// GetByID returns a report owned by requester, or one with no owner.
	GetByID(ctx context.Context, id int, requester string) (*dto.ReportResponse, error)
	List(ctx context.Context, userId string, req *dto.ListReportsRequest) ([]*dto.ReportResponse, error)
	// Delete removes a report owned by requester. Reports of other users look missing.
	Delete(ctx context.Context, id int, requester string) error
}

type reportService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewReportService(uowFactory unitofwork.RepositoryFactory) IReportService {
	return &reportService{uowFactory: uowFactory}
}

func (s *reportService) GetLatest(ctx context.Context, userId string) (*dto.ReportResponse, error) {
	r, err := s.uowFactory.NewUnitOfWork(ctx).ReportRepository().FindLatest(ctx, userId)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrReportNotFound
	}
	return toReportResponse(r), nil
}

func (s *reportService) GetByID(ctx context.Context, id int, requester string) (*dto.ReportResponse, error) {
	r, err := s.uowFactory.NewUnitOfWork(ctx).ReportRepository().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil || (r.UserId != "" && r.UserId != requester) {
		return nil, ErrReportNotFound
	}
	return toReportResponse(r), nil
}

func (s *reportService) List(ctx context.Context, userId string, req *dto.ListReportsRequest) ([]*dto.ReportResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultReportPageSize
	}

	reports, err := s.uowFactory.NewUnitOfWork(ctx).ReportRepository().FindAll(ctx, userId, limit, req.Offset)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ReportResponse, 0, len(reports))
	for _, r := range reports {
		result = append(result, toReportResponse(r))
	}
	return result, nil
}

// Delete frees the id for reuse by the next saved report.
func (s *reportService) Delete(ctx context.Context, id int, requester string) error {
	repo := s.uowFactory.NewUnitOfWork(ctx).ReportRepository()
	r, err := repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil || requester == "" || r.UserId != requester {
		return ErrReportNotFound
	}
	return repo.Delete(ctx, id)
}

func toReportResponse(r *entity.Report) *dto.ReportResponse {
	return &dto.ReportResponse{
		Id:         r.Id,
		SessionId:  r.SessionId,
		Idea:       r.Idea,
		UserId:     r.UserId,
		ResultJson: r.ResultJson,
		ReportMd:   r.ReportMd,
		CreatedAt:  r.CreatedAt,
	}
}
