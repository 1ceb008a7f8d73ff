package commit_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/requirements"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// placed назначение с пересчитанным по каталогу интервалом
type placed struct {
	service        domain.Service
	professionalID int64
	interval       types.Interval
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.Assignments) == 0 {
		return fmt.Errorf("%w: slot has no assignments", ErrInvalidInput)
	}

	if len(req.Assignments) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	// Одна услуга в слоте встречается один раз
	seen := make(map[int64]struct{}, len(req.Assignments))
	for _, a := range req.Assignments {
		if a.ServiceID <= 0 || a.ProfessionalID <= 0 {
			return fmt.Errorf("%w: serviceId and professionalId must be positive", ErrInvalidInput)
		}
		if _, dup := seen[a.ServiceID]; dup {
			return fmt.Errorf("%w: %w: id=%d", ErrIncompatibleServiceSet, requirements.ErrDuplicateService, a.ServiceID)
		}
		seen[a.ServiceID] = struct{}{}
		if err := a.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
		}
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше advanceBookingDays
func validateDate(date time.Time, now time.Time, advanceBookingDays int) error {
	if isDateInPast(date, now) {
		return ErrInvalidDate
	}

	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := dateOnly(now).AddDate(0, 0, advanceBookingDays)
	if dateOnly(date).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateBookingTime проверяет, что начало слота не раньше now + minBookingNoticeMinutes
func validateBookingTime(date time.Time, start int, now time.Time, minBookingNoticeMinutes int) error {
	if !isSameDay(date, now) {
		return nil
	}

	earliest := now.Hour()*60 + now.Minute() + minBookingNoticeMinutes
	if start < earliest {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minBookingNoticeMinutes)
	}

	return nil
}

// validateSlotRules проверяет слот по правилам набора услуг:
// порядок выполнения, совместимость и ширину параллельного выполнения,
// а также что у одного мастера назначения не пересекаются
func validateSlotRules(set *requirements.Set, assignments []placed) error {
	for i, a := range assignments {
		concurrent := 1
		for j, b := range assignments {
			if i == j {
				continue
			}

			if set.MustPrecede(a.service.ID, b.service.ID) && a.interval.End() > b.interval.Start() {
				return fmt.Errorf("%w: service %d must finish before service %d starts", ErrInvalidSlot, a.service.ID, b.service.ID)
			}

			if !types.Overlaps(a.interval, b.interval) {
				continue
			}
			if a.professionalID == b.professionalID {
				return fmt.Errorf("%w: professional %d is assigned overlapping services", ErrInvalidSlot, a.professionalID)
			}
			if !set.Compatible(a.service.ID, b.service.ID) {
				return fmt.Errorf("%w: services %d and %d cannot run at the same time", ErrInvalidSlot, a.service.ID, b.service.ID)
			}
			concurrent++
		}

		if concurrent > a.service.ParallelLimit() {
			return fmt.Errorf("%w: service %d allows at most %d professionals at once", ErrInvalidSlot, a.service.ID, a.service.ParallelLimit())
		}
	}

	return nil
}

func isDateInPast(date time.Time, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}

func isSameDay(date time.Time, now time.Time) bool {
	return dateOnly(date).Equal(dateOnly(now))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
