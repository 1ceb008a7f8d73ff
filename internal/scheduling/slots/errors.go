package slots

import "errors"

var (
	// ErrInvalidDate дата целиком в прошлом
	ErrInvalidDate = errors.New("slots: date is in the past")

	// ErrUnsatisfiableProfessionalCount запрошено больше мастеров, чем можно занять набором услуг
	ErrUnsatisfiableProfessionalCount = errors.New("slots: requested professional count cannot be satisfied")

	// ErrInvalidRequest некорректные параметры поиска
	ErrInvalidRequest = errors.New("slots: invalid request")
)
