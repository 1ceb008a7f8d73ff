package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "SCHEDULED"
	StatusConfirmed  AppointmentStatus = "CONFIRMED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
	StatusNoShow     AppointmentStatus = "NO_SHOW"
)

// IsValid проверяет, что статус из допустимого набора
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// OccupiesTime записи в этом статусе занимают время мастера и станции
func (s AppointmentStatus) OccupiesTime() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// IsTerminal из статуса нет переходов
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// statusTransitions допустимые переходы канбан-доски
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:  {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

// CanTransition проверяет допустимость перехода from -> to
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// DeriveGroupStatus вычисляет статус группы по статусам её записей
func DeriveGroupStatus(statuses []AppointmentStatus) AppointmentStatus {
	active := make([]AppointmentStatus, 0, len(statuses))
	for _, s := range statuses {
		if s != StatusCancelled {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		return StatusCancelled
	}

	allNoShow, allFinished, allConfirmed, anyStarted := true, true, true, false
	for _, s := range active {
		if s != StatusNoShow {
			allNoShow = false
		}
		if s != StatusCompleted && s != StatusNoShow {
			allFinished = false
		}
		if s != StatusConfirmed {
			allConfirmed = false
		}
		if s == StatusInProgress || s == StatusCompleted {
			anyStarted = true
		}
	}

	switch {
	case allNoShow:
		return StatusNoShow
	case allFinished:
		return StatusCompleted
	case anyStarted:
		return StatusInProgress
	case allConfirmed:
		return StatusConfirmed
	default:
		return StatusScheduled
	}
}

// AppointmentGroup группа записей одного визита клиента
type AppointmentGroup struct {
	ID                   int64
	ClientID             int64
	AppointmentDate      time.Time
	TotalDurationMinutes int
	TotalPrice           decimal.Decimal
	StartTime            types.TimeString
	EndTime              types.TimeString
	Status               AppointmentStatus
	Notes                *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Appointments []*Appointment
}

// CanBeCancelled группу можно отменить, пока визит не начался
func (g *AppointmentGroup) CanBeCancelled() bool {
	return g.Status == StatusScheduled || g.Status == StatusConfirmed
}

// Appointment запись на одну услугу к одному мастеру
type Appointment struct {
	ID              int64
	GroupID         *int64
	ClientID        int64
	ProfessionalID  int64
	ServiceID       int64
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          AppointmentStatus
	PriceAtBooking  decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval возвращает время записи как интервал
func (a *Appointment) Interval() (types.Interval, error) {
	return types.NewIntervalFromTimes(a.StartTime, a.EndTime)
}

// Summarize пересчитывает итоги группы по её записям:
// начало и конец - минимум и максимум, длительность - прошедшее время, цена - сумма
func (g *AppointmentGroup) Summarize() error {
	if len(g.Appointments) == 0 {
		return nil
	}

	start, end := types.MinutesPerDay, 0
	total := decimal.Zero
	for _, a := range g.Appointments {
		iv, err := a.Interval()
		if err != nil {
			return err
		}
		if iv.Start() < start {
			start = iv.Start()
		}
		if iv.End() > end {
			end = iv.End()
		}
		total = total.Add(a.PriceAtBooking)
	}

	span := types.MustInterval(start, end)
	g.StartTime = span.StartTime()
	g.EndTime = span.EndTime()
	g.TotalDurationMinutes = span.Minutes()
	g.TotalPrice = total
	return nil
}

// BookedInterval занятое записью время мастера
type BookedInterval struct {
	AppointmentID  int64
	ProfessionalID int64
	StartTime      types.TimeString
	EndTime        types.TimeString
}

// StationUsage занятость станций записью
type StationUsage struct {
	AppointmentID int64
	StationTypeID int64
	Qty           int
	StartTime     types.TimeString
	EndTime       types.TimeString
}

// AppointmentsFilter фильтр доски записей на день
type AppointmentsFilter struct {
	Date           time.Time          // Обязательный параметр
	ProfessionalID *int64             // Фильтр по мастеру (опционально)
	Status         *AppointmentStatus // Фильтр по статусу (опционально)
}
