package commit_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commitAppointment "github.com/m04kA/SMC-SalonBookingService/internal/usecase/commit_appointment"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

const validBody = `{
	"clientId": 7,
	"date": "2030-01-07",
	"slot": {
		"startTime": "10:00",
		"totalPrice": "1.00",
		"assignments": [
			{"serviceId": 2, "professionalId": 1, "startTime": "10:00", "endTime": "10:45"},
			{"serviceId": 3, "professionalId": 2, "startTime": "10:00", "endTime": "11:00"}
		]
	}
}`

type fakeUseCase struct {
	got  *commitAppointment.Request
	resp *commitAppointment.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *commitAppointment.Request) (*commitAppointment.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/commit", strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandleCreated(t *testing.T) {
	uc := &fakeUseCase{resp: &commitAppointment.Response{
		ID:                   5,
		ClientID:             7,
		AppointmentDate:      time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC),
		StartTime:            "10:00",
		EndTime:              "11:00",
		TotalDurationMinutes: 60,
		TotalPrice:           decimal.NewFromInt(2200),
		Status:               "SCHEDULED",
		Appointments: []commitAppointment.Appointment{
			{ID: 10, ServiceID: 2, ProfessionalID: 1, StartTime: "10:00", EndTime: "10:45", Status: "SCHEDULED", PriceAtBooking: decimal.NewFromInt(1000)},
			{ID: 11, ServiceID: 3, ProfessionalID: 2, StartTime: "10:00", EndTime: "11:00", Status: "SCHEDULED", PriceAtBooking: decimal.NewFromInt(1200)},
		},
	}}

	rec := serve(uc, validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body AppointmentGroupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(5), body.ID)
	assert.Equal(t, "2200.00", body.TotalPrice)
	assert.Equal(t, "1000.00", body.Appointments[0].PriceAtBooking)

	require.Len(t, uc.got.Assignments, 2)
	assert.Equal(t, types.TimeString("10:00"), uc.got.Assignments[1].StartTime)
	assert.Equal(t, int64(2), uc.got.Assignments[1].ProfessionalID)
}

func TestHandleBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "missing client", body: `{"date":"2030-01-07","slot":{"assignments":[{"serviceId":1,"professionalId":1,"startTime":"10:00"}]}}`},
		{name: "empty slot", body: `{"clientId":7,"date":"2030-01-07","slot":{"assignments":[]}}`},
		{name: "bad start time", body: `{"clientId":7,"date":"2030-01-07","slot":{"assignments":[{"serviceId":1,"professionalId":1,"startTime":"25:00"}]}}`},
		{name: "bad date", body: `{"clientId":7,"date":"2030/01/07","slot":{"assignments":[{"serviceId":1,"professionalId":1,"startTime":"10:00"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := serve(uc, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandleUseCaseErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: commitAppointment.ErrSlotNoLongerAvailable, wantStatus: http.StatusConflict},
		{err: commitAppointment.ErrInvalidSlot, wantStatus: http.StatusBadRequest},
		{err: commitAppointment.ErrIncompatibleServiceSet, wantStatus: http.StatusUnprocessableEntity},
		{err: commitAppointment.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{err: commitAppointment.ErrProfessionalNotFound, wantStatus: http.StatusNotFound},
		{err: commitAppointment.ErrProfessionalNotQualified, wantStatus: http.StatusBadRequest},
		{err: commitAppointment.ErrClientNotFound, wantStatus: http.StatusNotFound},
		{err: commitAppointment.ErrTooLateToBook, wantStatus: http.StatusBadRequest},
		{err: commitAppointment.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&fakeUseCase{err: fmt.Errorf("%w: details", tt.err)}, validBody)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
