package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type ReportRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ contract.ReportRepository = &ReportRepository{}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *ReportRepository) CreateWithNextID(ctx context.Context, report *entity.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.cache.Items()
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Object.(*entity.Report).Id)
	}

	report.Id = entity.NextReportID(ids)
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	if len(report.ResultJson) == 0 {
		report.ResultJson = []byte("{}")
	}
	r.cache.Set(strconv.Itoa(report.Id), copyReport(report), cache.NoExpiration)
	return nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id int) (*entity.Report, error) {
	if x, found := r.cache.Get(strconv.Itoa(id)); found {
		return copyReport(x.(*entity.Report)), nil
	}
	return nil, nil
}

func (r *ReportRepository) FindBySessionID(ctx context.Context, sessionId string) (*entity.Report, error) {
	for _, item := range r.cache.Items() {
		if rep := item.Object.(*entity.Report); rep.SessionId == sessionId {
			return copyReport(rep), nil
		}
	}
	return nil, nil
}

func (r *ReportRepository) FindLatest(ctx context.Context, userId string) (*entity.Report, error) {
	all := r.sorted(userId)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *ReportRepository) FindAll(ctx context.Context, userId string, limit, offset int) ([]*entity.Report, error) {
	all := r.sorted(userId)
	if offset >= len(all) {
		return []*entity.Report{}, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *ReportRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(strconv.Itoa(id))
	return nil
}

// sorted returns reports newest first, ties broken by higher id.
func (r *ReportRepository) sorted(userId string) []*entity.Report {
	var out []*entity.Report
	for _, item := range r.cache.Items() {
		rep := item.Object.(*entity.Report)
		if userId != "" && rep.UserId != userId {
			continue
		}
		out = append(out, copyReport(rep))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Id > out[j].Id
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func copyReport(r *entity.Report) *entity.Report {
	c := *r
	c.ResultJson = append([]byte(nil), r.ResultJson...)
	return &c
}
