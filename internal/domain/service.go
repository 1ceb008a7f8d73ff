package domain

import "github.com/shopspring/decimal"

// OrderConstraint порядок выполнения пары услуг
type OrderConstraint string

const (
	OrderBefore OrderConstraint = "before" // услуга A выполняется до услуги B
	OrderAfter  OrderConstraint = "after"  // услуга A выполняется после услуги B
	OrderNone   OrderConstraint = "none"
)

// IsValid проверяет значение ограничения
func (o OrderConstraint) IsValid() bool {
	switch o {
	case OrderBefore, OrderAfter, OrderNone, "":
		return true
	default:
		return false
	}
}

// StationRequirement потребность услуги в станциях определённого типа
type StationRequirement struct {
	StationTypeID int64
	Qty           int
}

// Service услуга салона из каталога
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
	CategoryID      *int64
	Parallelable    bool // может выполняться одновременно с другими услугами группы
	MaxParallelPros int  // сколько мастеров максимум могут работать одновременно в этапе с этой услугой
	Active          bool

	StationRequirements []StationRequirement
}

// ParallelLimit возвращает ограничение ширины этапа для услуги (не меньше 1)
func (s *Service) ParallelLimit() int {
	if !s.Parallelable || s.MaxParallelPros < 1 {
		return 1
	}
	return s.MaxParallelPros
}

// ServiceCompatibility правило совместимости упорядоченной пары услуг
type ServiceCompatibility struct {
	ServiceAID      int64
	ServiceBID      int64
	Compatible      bool // false - услуги нельзя выполнять одновременно
	OrderConstraint OrderConstraint
}
