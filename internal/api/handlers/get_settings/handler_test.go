package get_settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/service/settings/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type fakeService struct {
	resp *models.SettingsResponse
	err  error
}

func (f *fakeService) Get(context.Context) (*models.SettingsResponse, error) {
	return f.resp, f.err
}

func TestHandle(t *testing.T) {
	svc := &fakeService{resp: &models.SettingsResponse{BlockSizeMinutes: 30, AdvanceBookingDays: 60, IsDefault: true}}

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.SettingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 30, body.BlockSizeMinutes)
	assert.True(t, body.IsDefault)
}

func TestHandleError(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&fakeService{err: errors.New("db down")}, logger.Nop()).
		Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
