package commit_appointment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Request модель запроса на запись по выбранному слоту
type Request struct {
	ClientID    int64
	Date        time.Time
	Assignments []AssignmentInput
	Notes       *string
}

// AssignmentInput назначение из выбранного слота.
// Конец и цена пересчитываются по каталогу, присланные клиентом значения не используются.
type AssignmentInput struct {
	ServiceID      int64
	ProfessionalID int64
	StartTime      types.TimeString
}

// Response созданная группа записей
type Response struct {
	ID                   int64
	ClientID             int64
	AppointmentDate      time.Time
	StartTime            types.TimeString
	EndTime              types.TimeString
	TotalDurationMinutes int
	TotalPrice           decimal.Decimal
	Status               string
	Notes                *string
	Appointments         []Appointment
	CreatedAt            time.Time
}

// Appointment запись на одну услугу
type Appointment struct {
	ID             int64
	ServiceID      int64
	ProfessionalID int64
	StartTime      types.TimeString
	EndTime        types.TimeString
	Status         string
	PriceAtBooking decimal.Decimal
}

// GroupCreatedEvent событие о новой группе записей
type GroupCreatedEvent struct {
	GroupID         int64   `json:"groupId"`
	ClientID        int64   `json:"clientId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	TotalPrice      string  `json:"totalPrice"`
	ProfessionalIDs []int64 `json:"professionalIds"`
	AppointmentIDs  []int64 `json:"appointmentIds"`
}
