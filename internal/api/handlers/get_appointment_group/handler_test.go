package get_appointment_group

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) GetGroup(_ context.Context, groupID int64) (*models.GroupResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.GroupResponse{
		ID:         groupID,
		TotalPrice: "2200.00",
		Appointments: []models.AppointmentResponse{
			{ID: 1, ServiceID: 2}, {ID: 2, ServiceID: 3},
		},
	}, nil
}

func serve(svc *fakeService, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointment-groups/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"groupId": id})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	rec := serve(&fakeService{}, "7")
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.GroupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
	assert.Len(t, body.Appointments, 2)
}

func TestHandleErrors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "x").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "-1").Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: appointments.ErrGroupNotFound}, "7").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: appointments.ErrInternal}, "7").Code)
}
