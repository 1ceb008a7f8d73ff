package get_available_slots

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// toResponseSlots конвертирует слоты движка в модели ответа
func toResponseSlots(found []domain.Slot) []Slot {
	out := make([]Slot, 0, len(found))
	for _, s := range found {
		assignments := make([]Assignment, 0, len(s.Assignments))
		for _, a := range s.Assignments {
			assignments = append(assignments, Assignment{
				ServiceID:      a.ServiceID,
				ProfessionalID: a.ProfessionalID,
				StartTime:      a.Interval.StartTime(),
				EndTime:        a.Interval.EndTime(),
			})
		}
		out = append(out, Slot{
			StartTime:            s.Interval.StartTime(),
			EndTime:              s.Interval.EndTime(),
			TotalDurationMinutes: s.TotalDurationMinutes,
			TotalPrice:           s.TotalPrice,
			Assignments:          assignments,
		})
	}
	return out
}

// paginate отдает страницу уже полностью посчитанного списка. limit = 0 - до конца.
func paginate(all []Slot, limit, offset int) []Slot {
	if offset >= len(all) {
		return []Slot{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
