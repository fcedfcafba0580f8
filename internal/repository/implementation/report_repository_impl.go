package implementation

import (
	"context"
	"errors"

	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/mapper"
	"inzite-research-be/internal/model"
	"inzite-research-be/internal/repository/contract"
	"inzite-research-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReportMapper
}

func NewReportRepository(db *gorm.DB) contract.ReportRepository {
	return &ReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewReportMapper(),
	}
}

func (r *ReportRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// CreateWithNextID picks the lowest free id inside one transaction. On postgres the table is
// locked against concurrent writers until commit, so two inserts never pick the same gap.
func (r *ReportRepositoryImpl) CreateWithNextID(ctx context.Context, report *entity.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("LOCK TABLE reports IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
				return err
			}
		}

		var ids []int
		if err := tx.Model(&model.Report{}).Pluck("id", &ids).Error; err != nil {
			return err
		}

		report.Id = entity.NextReportID(ids)
		m := r.mapper.ToModel(report)
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		*report = *r.mapper.ToEntity(m)
		return nil
	})
}

func (r *ReportRepositoryImpl) FindByID(ctx context.Context, id int) (*entity.Report, error) {
	return r.findOne(ctx, specification.ByReportID{ID: id})
}

func (r *ReportRepositoryImpl) FindBySessionID(ctx context.Context, sessionId string) (*entity.Report, error) {
	return r.findOne(ctx, specification.BySessionID{SessionID: sessionId})
}

func (r *ReportRepositoryImpl) FindLatest(ctx context.Context, userId string) (*entity.Report, error) {
	return r.findOne(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.OrderBy{Field: "id", Desc: true},
	)
}

func (r *ReportRepositoryImpl) FindAll(ctx context.Context, userId string, limit, offset int) ([]*entity.Report, error) {
	var models []*model.Report
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.OrderBy{Field: "id", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	reports := make([]*entity.Report, len(models))
	for i, m := range models {
		reports[i] = r.mapper.ToEntity(m)
	}
	return reports, nil
}

func (r *ReportRepositoryImpl) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(&model.Report{}, id).Error
}

func (r *ReportRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Report, error) {
	var m model.Report
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
