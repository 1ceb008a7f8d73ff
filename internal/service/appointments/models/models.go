package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// ListAppointmentsRequest запрос доски записей на день
type ListAppointmentsRequest struct {
	Date           time.Time `json:"date"`
	ProfessionalID *int64    `json:"professionalId,omitempty"` // Фильтр по мастеру (опционально)
	Status         *string   `json:"status,omitempty"`         // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		Date:           r.Date,
		ProfessionalID: r.ProfessionalID,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// CancelGroupRequest запрос на отмену группы записей
type CancelGroupRequest struct {
	StaffID            int64  `json:"staffId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	StaffID int64  `json:"staffId"`
	Status  string `json:"status"`
}

// Response модели

// AppointmentResponse запись на одну услугу
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	GroupID         *int64    `json:"groupId,omitempty"`
	ClientID        int64     `json:"clientId"`
	ProfessionalID  int64     `json:"professionalId"`
	ServiceID       int64     `json:"serviceId"`
	AppointmentDate string    `json:"appointmentDate"` // "2025-10-15"
	StartTime       string    `json:"startTime"`       // "10:00"
	EndTime         string    `json:"endTime"`
	Status          string    `json:"status"`
	PriceAtBooking  string    `json:"priceAtBooking"` // "1500.00"
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// GroupResponse группа записей вместе с записями
type GroupResponse struct {
	ID                   int64   `json:"id"`
	ClientID             int64   `json:"clientId"`
	AppointmentDate      string  `json:"appointmentDate"`
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	TotalDurationMinutes int     `json:"totalDurationMinutes"`
	TotalPrice           string  `json:"totalPrice"`
	Status               string  `json:"status"`
	Notes                *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	Appointments []AppointmentResponse `json:"appointments"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Модели событий

// GroupCancelledEvent событие об отмене группы записей
type GroupCancelledEvent struct {
	GroupID            int64  `json:"groupId"`
	ClientID           int64  `json:"clientId"`
	Date               string `json:"date"`
	CancellationReason string `json:"cancellationReason"`
	StaffID            int64  `json:"staffId"`
}

// StatusChangedEvent событие о смене статуса записи
type StatusChangedEvent struct {
	AppointmentID int64  `json:"appointmentId"`
	GroupID       *int64 `json:"groupId,omitempty"`
	From          string `json:"from"`
	To            string `json:"to"`
	GroupStatus   string `json:"groupStatus,omitempty"`
	StaffID       int64  `json:"staffId"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:              a.ID,
		GroupID:         a.GroupID,
		ClientID:        a.ClientID,
		ProfessionalID:  a.ProfessionalID,
		ServiceID:       a.ServiceID,
		AppointmentDate: a.AppointmentDate.Format(domain.DateFormat),
		StartTime:       a.StartTime.String(),
		EndTime:         a.EndTime.String(),
		Status:          string(a.Status),
		PriceAtBooking:  a.PriceAtBooking.StringFixed(2),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}

// FromDomainGroup конвертирует группу и её записи в DTO
func FromDomainGroup(g *domain.AppointmentGroup) *GroupResponse {
	if g == nil {
		return nil
	}

	resp := &GroupResponse{
		ID:                   g.ID,
		ClientID:             g.ClientID,
		AppointmentDate:      g.AppointmentDate.Format(domain.DateFormat),
		StartTime:            g.StartTime.String(),
		EndTime:              g.EndTime.String(),
		TotalDurationMinutes: g.TotalDurationMinutes,
		TotalPrice:           g.TotalPrice.StringFixed(2),
		Status:               string(g.Status),
		Notes:                g.Notes,
		CancellationReason:   g.CancellationReason,
		Appointments:         FromDomainAppointmentList(g.Appointments).Appointments,
		CreatedAt:            g.CreatedAt,
		UpdatedAt:            g.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if g.CancelledAt != nil {
		cancelledStr := g.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
