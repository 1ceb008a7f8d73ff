package update_settings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/settings"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/settings/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type fakeService struct {
	got *models.UpdateSettingsRequest
	err error
}

func (f *fakeService) Update(_ context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.SettingsResponse{BlockSizeMinutes: *req.BlockSizeMinutes}, nil
}

func serve(svc *fakeService, body string, staffID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body))
	if staffID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), staffID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandleUpdates(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, `{"blockSizeMinutes":15}`, 9)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), svc.got.StaffID)
	assert.Equal(t, 15, *svc.got.BlockSizeMinutes)
	assert.Nil(t, svc.got.AdvanceBookingDays)
}

func TestHandleErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		staffID    int64
		err        error
		wantStatus int
	}{
		{name: "no staff", body: `{"blockSizeMinutes":15}`, wantStatus: http.StatusUnauthorized},
		{name: "malformed", body: `{`, staffID: 9, wantStatus: http.StatusBadRequest},
		{name: "out of bounds", body: `{"blockSizeMinutes":1}`, staffID: 9, err: fmt.Errorf("%w: blockSizeMinutes", settings.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "internal", body: `{"blockSizeMinutes":15}`, staffID: 9, err: settings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.body, tt.staffID)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
