package update_appointment_status

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type fakeService struct {
	got *models.UpdateStatusRequest
	err error
}

func (f *fakeService) UpdateStatus(_ context.Context, appointmentID int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: appointmentID, Status: req.Status}, nil
}

func serve(svc *fakeService, id, body string, staffID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+id+"/status", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	if staffID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), staffID))
	}

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandleNormalizesStatus(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "5", `{"status":" in_progress "}`, 2)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "IN_PROGRESS", svc.got.Status)
	assert.Equal(t, int64(2), svc.got.StaffID)
}

func TestHandleErrors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		staffID    int64
		err        error
		wantStatus int
	}{
		{name: "bad id", id: "0", body: `{"status":"CONFIRMED"}`, staffID: 2, wantStatus: http.StatusBadRequest},
		{name: "no staff", id: "5", body: `{"status":"CONFIRMED"}`, wantStatus: http.StatusUnauthorized},
		{name: "missing status", id: "5", body: `{}`, staffID: 2, wantStatus: http.StatusBadRequest},
		{name: "malformed body", id: "5", body: `{`, staffID: 2, wantStatus: http.StatusBadRequest},
		{name: "not found", id: "5", body: `{"status":"CONFIRMED"}`, staffID: 2, err: appointments.ErrAppointmentNotFound, wantStatus: http.StatusNotFound},
		{name: "invalid status", id: "5", body: `{"status":"DONE"}`, staffID: 2, err: fmt.Errorf("%w: invalid status", appointments.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "invalid transition", id: "5", body: `{"status":"SCHEDULED"}`, staffID: 2, err: fmt.Errorf("%w: COMPLETED -> SCHEDULED", appointments.ErrInvalidTransition), wantStatus: http.StatusConflict},
		{name: "internal", id: "5", body: `{"status":"CONFIRMED"}`, staffID: 2, err: appointments.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.id, tt.body, tt.staffID)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
