package service

import (
	"context"
	"testing"
	"time"

	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService(t *testing.T) {
	factory, _ := newMemoryFactory()
	repo := factory.NewUnitOfWork(context.Background()).ReportRepository()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, r := range []*entity.Report{
		{Idea: "first", UserId: "u1", CreatedAt: base},
		{Idea: "second", UserId: "u2", CreatedAt: base.Add(time.Hour)},
		{Idea: "third", UserId: "u1", CreatedAt: base.Add(2 * time.Hour)},
	} {
		require.NoError(t, repo.CreateWithNextID(context.Background(), r))
		require.Equal(t, i, r.Id)
	}

	svc := NewReportService(factory)
	ctx := context.Background()

	latest, err := svc.GetLatest(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "third", latest.Idea)

	latestU2, err := svc.GetLatest(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "second", latestU2.Idea)

	_, err = svc.GetLatest(ctx, "nobody")
	assert.ErrorIs(t, err, ErrReportNotFound)

	one, err := svc.GetByID(ctx, 1, "u2")
	require.NoError(t, err)
	assert.Equal(t, "second", one.Idea)
	assert.JSONEq(t, "{}", string(one.ResultJson))

	list, err := svc.List(ctx, "u1", &dto.ListReportsRequest{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "third", list[0].Idea)

	require.NoError(t, svc.Delete(ctx, 1, "u2"))
	assert.ErrorIs(t, svc.Delete(ctx, 1, "u2"), ErrReportNotFound)
	_, err = svc.GetByID(ctx, 1, "u2")
	assert.ErrorIs(t, err, ErrReportNotFound)

	reused := &entity.Report{Idea: "fourth"}
	require.NoError(t, repo.CreateWithNextID(ctx, reused))
	assert.Equal(t, 1, reused.Id)
}

func TestReportService_OwnerOnly(t *testing.T) {
	factory, _ := newMemoryFactory()
	ctx := context.Background()
	repo := factory.NewUnitOfWork(ctx).ReportRepository()
	require.NoError(t, repo.CreateWithNextID(ctx, &entity.Report{Idea: "alice's idea", UserId: "alice"}))
	require.NoError(t, repo.CreateWithNextID(ctx, &entity.Report{Idea: "anonymous idea"}))

	svc := NewReportService(factory)

	tests := []struct {
		name      string
		id        int
		requester string
		readable  bool
		deletable bool
	}{
		{name: "other user", id: 0, requester: "mallory", readable: false, deletable: false},
		{name: "anonymous caller", id: 0, requester: "", readable: false, deletable: false},
		{name: "unowned report", id: 1, requester: "mallory", readable: true, deletable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetByID(ctx, tt.id, tt.requester)
			if tt.readable {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrReportNotFound)
			}
			assert.ErrorIs(t, svc.Delete(ctx, tt.id, tt.requester), ErrReportNotFound)
		})
	}

	stored, err := repo.FindByID(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, stored)

	require.NoError(t, svc.Delete(ctx, 0, "alice"))
	_, err = svc.GetByID(ctx, 0, "alice")
	assert.ErrorIs(t, err, ErrReportNotFound)
}
