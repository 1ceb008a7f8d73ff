package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/settings/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
	"github.com/m04kA/SMC-SalonBookingService/pkg/ptr"
)

type memoryRepo struct {
	stored  *domain.SchedulingSettings
	getErr  error
	upserts int
}

func (r *memoryRepo) Get(context.Context) (*domain.SchedulingSettings, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.stored == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	copied := *r.stored
	return &copied, nil
}

func (r *memoryRepo) Upsert(_ context.Context, s *domain.SchedulingSettings) (*domain.SchedulingSettings, error) {
	r.upserts++
	saved := *s
	saved.UpdatedAt = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	r.stored = &saved
	return &saved, nil
}

func TestGetReturnsDefaults(t *testing.T) {
	svc := NewService(&memoryRepo{}, logger.Nop())

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.IsDefault)
	assert.Equal(t, domain.DefaultBlockSizeMinutes, resp.BlockSizeMinutes)
	assert.Equal(t, domain.DefaultMinBookingNoticeMinutes, resp.MinBookingNoticeMinutes)
	assert.Nil(t, resp.UpdatedAt)
}

func TestGetRepositoryError(t *testing.T) {
	svc := NewService(&memoryRepo{getErr: errors.New("connection refused")}, logger.Nop())

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUpdatePartial(t *testing.T) {
	repo := &memoryRepo{stored: &domain.SchedulingSettings{BlockSizeMinutes: 30, AdvanceBookingDays: 14, MinBookingNoticeMinutes: 60}}
	svc := NewService(repo, logger.Nop())

	resp, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{StaffID: 1, BlockSizeMinutes: ptr.Ptr(15)})
	require.NoError(t, err)

	assert.False(t, resp.IsDefault)
	assert.Equal(t, 15, resp.BlockSizeMinutes)
	assert.Equal(t, 14, resp.AdvanceBookingDays)
	assert.Equal(t, 60, resp.MinBookingNoticeMinutes)
	assert.NotNil(t, resp.UpdatedAt)
	assert.Equal(t, 15, repo.stored.BlockSizeMinutes)
}

func TestUpdateStartsFromDefaults(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, logger.Nop())

	resp, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{StaffID: 1, AdvanceBookingDays: ptr.Ptr(30)})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultBlockSizeMinutes, resp.BlockSizeMinutes)
	assert.Equal(t, 30, resp.AdvanceBookingDays)
}

func TestUpdateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.UpdateSettingsRequest
	}{
		{name: "block too small", req: &models.UpdateSettingsRequest{BlockSizeMinutes: ptr.Ptr(domain.MinBlockSizeMinutes - 1)}},
		{name: "block too large", req: &models.UpdateSettingsRequest{BlockSizeMinutes: ptr.Ptr(domain.MaxBlockSizeMinutes + 1)}},
		{name: "negative advance days", req: &models.UpdateSettingsRequest{AdvanceBookingDays: ptr.Ptr(-1)}},
		{name: "advance over a year", req: &models.UpdateSettingsRequest{AdvanceBookingDays: ptr.Ptr(366)}},
		{name: "notice over a week", req: &models.UpdateSettingsRequest{MinBookingNoticeMinutes: ptr.Ptr(domain.MaxBookingNoticeMinutes + 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryRepo{}
			svc := NewService(repo, logger.Nop())

			_, err := svc.Update(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, repo.upserts)
		})
	}
}
