package contract

import (
	"context"

	"inzite-research-be/internal/entity"
)

type ReportRepository interface {
	// CreateWithNextID assigns the lowest unused id and inserts the report atomically.
	CreateWithNextID(ctx context.Context, report *entity.Report) error
	FindByID(ctx context.Context, id int) (*entity.Report, error)
	FindBySessionID(ctx context.Context, sessionId string) (*entity.Report, error)
	// FindLatest returns the newest report, restricted to userId when it is not empty.
	FindLatest(ctx context.Context, userId string) (*entity.Report, error)
	FindAll(ctx context.Context, userId string, limit, offset int) ([]*entity.Report, error)
	Delete(ctx context.Context, id int) error
}
