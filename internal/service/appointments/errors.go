package appointments

import "errors"

var (
	// ErrGroupNotFound возвращается, когда группа записей не найдена
	ErrGroupNotFound = errors.New("appointment group not found")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrCannotCancel возвращается, когда визит уже начался или завершён
	ErrCannotCancel = errors.New("appointment group cannot be cancelled")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса записи
	ErrInvalidTransition = errors.New("invalid appointment status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
