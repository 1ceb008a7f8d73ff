package get_available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или не активна
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrIncompatibleServiceSet возвращается, когда услуги нельзя выполнить вместе
	ErrIncompatibleServiceSet = errors.New("get_available_slots: these services cannot be combined")

	// ErrUnsatisfiableProfessionalCount возвращается, когда запрошенное число мастеров нельзя занять
	ErrUnsatisfiableProfessionalCount = errors.New("get_available_slots: requested professional count cannot be satisfied")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("get_available_slots: date is too far in the future")

	// ErrMalformedSchedule возвращается при некорректных данных расписания салона
	ErrMalformedSchedule = errors.New("get_available_slots: malformed schedule data")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
