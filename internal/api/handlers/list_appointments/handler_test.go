package list_appointments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type fakeService struct {
	got *models.ListAppointmentsRequest
	err error
}

func (f *fakeService) List(_ context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{{ID: 1}}}, nil
}

func serve(svc *fakeService, query string, staffID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?"+query, nil)
	if staffID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), staffID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestParseQuery(t *testing.T) {
	req, err := ParseQuery(url.Values{
		"date":           {"2030-01-07"},
		"professionalId": {"4"},
		"status":         {"scheduled"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2030-01-07", req.Date.Format("2006-01-02"))
	require.NotNil(t, req.ProfessionalID)
	assert.Equal(t, int64(4), *req.ProfessionalID)
	require.NotNil(t, req.Status)
	assert.Equal(t, "SCHEDULED", *req.Status)

	_, err = ParseQuery(url.Values{"date": {"2030-01-07"}, "professionalId": {"x"}})
	assert.Error(t, err)

	_, err = ParseQuery(url.Values{})
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "date=2030-01-07", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.got.ProfessionalID)
	assert.Nil(t, svc.got.Status)
}

func TestHandleErrors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		staffID    int64
		err        error
		wantStatus int
	}{
		{name: "no staff", query: "date=2030-01-07", wantStatus: http.StatusUnauthorized},
		{name: "missing date", query: "", staffID: 1, wantStatus: http.StatusBadRequest},
		{name: "invalid status", query: "date=2030-01-07&status=LATE", staffID: 1, err: appointments.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", query: "date=2030-01-07", staffID: 1, err: appointments.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.query, tt.staffID)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
