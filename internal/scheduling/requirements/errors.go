package requirements

import "errors"

var (
	// ErrIncompatibleServiceSet набор услуг нельзя выполнить вместе: цикл порядка или противоречивые правила
	ErrIncompatibleServiceSet = errors.New("requirements: these services cannot be combined")

	// ErrEmptyServiceSet не выбрано ни одной услуги
	ErrEmptyServiceSet = errors.New("requirements: empty service set")

	// ErrDuplicateService услуга выбрана дважды
	ErrDuplicateService = errors.New("requirements: service selected twice")

	// ErrInvalidService у услуги некорректная длительность или ограничение параллельности
	ErrInvalidService = errors.New("requirements: invalid service definition")
)
