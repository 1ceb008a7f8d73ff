package get_available_slots

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

	getAvailableSlots "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type fakeUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/availability/slots", strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandleReturnsSlots(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		Date: time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC),
		Slots: []getAvailableSlots.Slot{{
			StartTime: "09:00", EndTime: "10:00", TotalDurationMinutes: 60, TotalPrice: decimal.NewFromInt(2200),
			Assignments: []getAvailableSlots.Assignment{
				{ServiceID: 2, ProfessionalID: 1, StartTime: "09:00", EndTime: "09:45"},
				{ServiceID: 3, ProfessionalID: 2, StartTime: "09:00", EndTime: "10:00"},
			},
		}},
		Total:             3,
		ProfessionalsUsed: 2,
	}}

	rec := serve(uc, `{"serviceIds":[2,3],"date":"2030-01-07","professionalsRequested":2,"limit":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2030-01-07", body.Date)
	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Slots, 1)
	assert.Equal(t, "2200.00", body.Slots[0].TotalPrice)
	assert.Len(t, body.Slots[0].Assignments, 2)

	assert.Equal(t, []int64{2, 3}, uc.got.ServiceIDs)
	assert.Equal(t, 2, uc.got.ProfessionalsRequested)
	assert.Equal(t, 1, uc.got.Limit)
}

func TestHandleAutoProfessionals(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{}}

	rec := serve(uc, `{"serviceIds":[2,3],"date":"2030-01-07","professionalsRequested":"auto"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, uc.got.ProfessionalsRequested)
}

func TestHandleBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"serviceIds":`},
		{name: "no services", body: `{"serviceIds":[],"date":"2030-01-07"}`},
		{name: "missing date", body: `{"serviceIds":[1]}`},
		{name: "bad date", body: `{"serviceIds":[1],"date":"07.01.2030"}`},
		{name: "bad professionals value", body: `{"serviceIds":[1],"date":"2030-01-07","professionalsRequested":"many"}`},
		{name: "negative offset", body: `{"serviceIds":[1],"date":"2030-01-07","offset":-1}`},
		{name: "non positive service id", body: `{"serviceIds":[0],"date":"2030-01-07"}`},
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
		{err: getAvailableSlots.ErrInvalidDate, wantStatus: http.StatusBadRequest},
		{err: getAvailableSlots.ErrDateTooFarInFuture, wantStatus: http.StatusBadRequest},
		{err: getAvailableSlots.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{err: getAvailableSlots.ErrIncompatibleServiceSet, wantStatus: http.StatusUnprocessableEntity},
		{err: getAvailableSlots.ErrUnsatisfiableProfessionalCount, wantStatus: http.StatusUnprocessableEntity},
		{err: getAvailableSlots.ErrMalformedSchedule, wantStatus: http.StatusInternalServerError},
		{err: getAvailableSlots.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &fakeUseCase{err: fmt.Errorf("%w: details", tt.err)}
			rec := serve(uc, `{"serviceIds":[1],"date":"2030-01-07","professionalsRequested":1}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
