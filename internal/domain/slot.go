package domain

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Assignment назначение услуги мастеру внутри слота
type Assignment struct {
	ServiceID      int64
	ProfessionalID int64
	Interval       types.Interval
}

// Slot вариант времени, в которое можно выполнить весь набор услуг
type Slot struct {
	Interval             types.Interval
	TotalDurationMinutes int
	TotalPrice           decimal.Decimal
	Assignments          []Assignment
}

// ProfessionalIDs возвращает отсортированные id мастеров слота без повторов
func (s *Slot) ProfessionalIDs() []int64 {
	seen := make(map[int64]struct{}, len(s.Assignments))
	ids := make([]int64, 0, len(s.Assignments))
	for _, a := range s.Assignments {
		if _, ok := seen[a.ProfessionalID]; ok {
			continue
		}
		seen[a.ProfessionalID] = struct{}{}
		ids = append(ids, a.ProfessionalID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HasDoubleBooking проверяет, что у какого-то мастера пересекаются назначения внутри слота
func (s *Slot) HasDoubleBooking() bool {
	for i := range s.Assignments {
		for j := i + 1; j < len(s.Assignments); j++ {
			a, b := s.Assignments[i], s.Assignments[j]
			if a.ProfessionalID == b.ProfessionalID && types.Overlaps(a.Interval, b.Interval) {
				return true
			}
		}
	}
	return false
}
