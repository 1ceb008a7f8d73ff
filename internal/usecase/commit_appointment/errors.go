package commit_appointment

import "errors"

var (
	// ErrSlotNoLongerAvailable возвращается, когда слот заняли между поиском и записью
	ErrSlotNoLongerAvailable = errors.New("commit_appointment: slot is no longer available")

	// ErrInvalidSlot возвращается, когда слот нарушает правила набора услуг
	ErrInvalidSlot = errors.New("commit_appointment: slot violates service rules")

	// ErrIncompatibleServiceSet возвращается, когда услуги нельзя выполнить вместе
	ErrIncompatibleServiceSet = errors.New("commit_appointment: these services cannot be combined")

	// ErrServiceNotFound возвращается, когда услуга не найдена или не активна
	ErrServiceNotFound = errors.New("commit_appointment: service not found")

	// ErrProfessionalNotFound возвращается, когда мастер не найден или не активен
	ErrProfessionalNotFound = errors.New("commit_appointment: professional not found")

	// ErrProfessionalNotQualified возвращается, когда мастер не выполняет назначенную услугу
	ErrProfessionalNotQualified = errors.New("commit_appointment: professional does not offer the service")

	// ErrClientNotFound возвращается, когда клиента нет в справочнике
	ErrClientNotFound = errors.New("commit_appointment: client not found")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("commit_appointment: invalid date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("commit_appointment: date is too far in the future")

	// ErrTooLateToBook возвращается, когда запись нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("commit_appointment: too late to book this slot")

	// ErrMalformedSchedule возвращается при некорректных данных расписания салона
	ErrMalformedSchedule = errors.New("commit_appointment: malformed schedule data")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("commit_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("commit_appointment: internal error")
)
