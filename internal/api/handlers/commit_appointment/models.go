package commit_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	commitAppointment "github.com/m04kA/SMC-SalonBookingService/internal/usecase/commit_appointment"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// CommitRequest HTTP request model.
// Слот передаётся в том виде, в каком его вернул поиск; конец и цены пересчитываются сервером
type CommitRequest struct {
	ClientID int64       `json:"clientId" validate:"required,gt=0"`
	Date     string      `json:"date" validate:"required"` // "2025-10-15"
	Slot     SlotRequest `json:"slot"`
	Notes    *string     `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// SlotRequest выбранный слот
type SlotRequest struct {
	Assignments []AssignmentRequest `json:"assignments" validate:"required,min=1,max=10,dive"`
}

// AssignmentRequest назначение услуги мастеру
type AssignmentRequest struct {
	ServiceID      int64  `json:"serviceId" validate:"required,gt=0"`
	ProfessionalID int64  `json:"professionalId" validate:"required,gt=0"`
	StartTime      string `json:"startTime" validate:"required"` // "10:00"
}

// AppointmentGroupResponse HTTP response model
type AppointmentGroupResponse struct {
	ID                   int64                 `json:"id"`
	ClientID             int64                 `json:"clientId"`
	AppointmentDate      string                `json:"appointmentDate"`
	StartTime            string                `json:"startTime"`
	EndTime              string                `json:"endTime"`
	TotalDurationMinutes int                   `json:"totalDurationMinutes"`
	TotalPrice           string                `json:"totalPrice"`
	Status               string                `json:"status"`
	Notes                *string               `json:"notes,omitempty"`
	Appointments         []AppointmentResponse `json:"appointments"`
	CreatedAt            string                `json:"createdAt"`
}

// AppointmentResponse запись на одну услугу
type AppointmentResponse struct {
	ID             int64  `json:"id"`
	ServiceID      int64  `json:"serviceId"`
	ProfessionalID int64  `json:"professionalId"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Status         string `json:"status"`
	PriceAtBooking string `json:"priceAtBooking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CommitRequest) ToUseCaseRequest() (*commitAppointment.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	assignments := make([]commitAppointment.AssignmentInput, len(r.Slot.Assignments))
	for i, a := range r.Slot.Assignments {
		// Парсим время
		start, err := types.NewTimeStringFromString(a.StartTime)
		if err != nil {
			return nil, err
		}
		assignments[i] = commitAppointment.AssignmentInput{
			ServiceID:      a.ServiceID,
			ProfessionalID: a.ProfessionalID,
			StartTime:      start,
		}
	}

	return &commitAppointment.Request{
		ClientID:    r.ClientID,
		Date:        date,
		Assignments: assignments,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *commitAppointment.Response) *AppointmentGroupResponse {
	appointments := make([]AppointmentResponse, len(resp.Appointments))
	for i, a := range resp.Appointments {
		appointments[i] = AppointmentResponse{
			ID:             a.ID,
			ServiceID:      a.ServiceID,
			ProfessionalID: a.ProfessionalID,
			StartTime:      a.StartTime.String(),
			EndTime:        a.EndTime.String(),
			Status:         a.Status,
			PriceAtBooking: a.PriceAtBooking.StringFixed(2),
		}
	}

	return &AppointmentGroupResponse{
		ID:                   resp.ID,
		ClientID:             resp.ClientID,
		AppointmentDate:      resp.AppointmentDate.Format(domain.DateFormat),
		StartTime:            resp.StartTime.String(),
		EndTime:              resp.EndTime.String(),
		TotalDurationMinutes: resp.TotalDurationMinutes,
		TotalPrice:           resp.TotalPrice.StringFixed(2),
		Status:               resp.Status,
		Notes:                resp.Notes,
		Appointments:         appointments,
		CreatedAt:            resp.CreatedAt.Format(time.RFC3339),
	}
}
