// Package schedule вычисляет свободное время мастера на конкретную дату
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// ErrMalformedSchedule в расписании мастера лежат некорректные интервалы (конец раньше начала и т.п.)
var ErrMalformedSchedule = errors.New("schedule: malformed schedule data")

// Day исходные данные о рабочем дне одного мастера
type Day struct {
	ProfessionalID int64
	Windows        []domain.ProfessionalAvailability
	Breaks         []domain.ProfessionalBreak
	Blocks         []domain.ProfessionalBlockedTime
	Booked         []domain.BookedInterval
}

// Resolve возвращает свободные интервалы мастера:
// окна работы минус перерывы, разовые блокировки и уже занятые записи.
// Результат отсортирован и не содержит пересечений. Нет окон - пустой список.
func Resolve(day Day) ([]types.Interval, error) {
	windows := make([]types.Interval, 0, len(day.Windows))
	for _, w := range day.Windows {
		iv, err := w.Interval()
		if err != nil {
			return nil, fmt.Errorf("%w: professional=%d availability id=%d: %v", ErrMalformedSchedule, day.ProfessionalID, w.ID, err)
		}
		windows = append(windows, iv)
	}
	if len(windows) == 0 {
		return []types.Interval{}, nil
	}

	cuts := make([]types.Interval, 0, len(day.Breaks)+len(day.Blocks)+len(day.Booked))
	for _, b := range day.Breaks {
		iv, err := b.Interval()
		if err != nil {
			return nil, fmt.Errorf("%w: professional=%d break id=%d: %v", ErrMalformedSchedule, day.ProfessionalID, b.ID, err)
		}
		cuts = append(cuts, iv)
	}
	for _, b := range day.Blocks {
		iv, err := b.Interval()
		if err != nil {
			return nil, fmt.Errorf("%w: professional=%d blocked time id=%d: %v", ErrMalformedSchedule, day.ProfessionalID, b.ID, err)
		}
		cuts = append(cuts, iv)
	}
	for _, b := range day.Booked {
		iv, err := types.NewIntervalFromTimes(b.StartTime, b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: professional=%d appointment id=%d: %v", ErrMalformedSchedule, day.ProfessionalID, b.AppointmentID, err)
		}
		cuts = append(cuts, iv)
	}

	return types.SubtractAll(windows, cuts), nil
}

// DayOfWeek номер дня недели в формате расписания (0 = воскресенье)
func DayOfWeek(date time.Time) int {
	return int(date.Weekday())
}

// Days раскладывает строки расписания по мастерам.
// Для каждого id из professionalIDs возвращается Day, даже если строк нет.
func Days(
	professionalIDs []int64,
	windows []domain.ProfessionalAvailability,
	breaks []domain.ProfessionalBreak,
	blocks []domain.ProfessionalBlockedTime,
	booked []domain.BookedInterval,
) map[int64]Day {
	days := make(map[int64]Day, len(professionalIDs))
	for _, id := range professionalIDs {
		days[id] = Day{ProfessionalID: id}
	}

	for _, w := range windows {
		if day, ok := days[w.ProfessionalID]; ok {
			day.Windows = append(day.Windows, w)
			days[w.ProfessionalID] = day
		}
	}
	for _, b := range breaks {
		if day, ok := days[b.ProfessionalID]; ok {
			day.Breaks = append(day.Breaks, b)
			days[b.ProfessionalID] = day
		}
	}
	for _, b := range blocks {
		if day, ok := days[b.ProfessionalID]; ok {
			day.Blocks = append(day.Blocks, b)
			days[b.ProfessionalID] = day
		}
	}
	for _, b := range booked {
		if day, ok := days[b.ProfessionalID]; ok {
			day.Booked = append(day.Booked, b)
			days[b.ProfessionalID] = day
		}
	}

	return days
}

// SortedIDs возвращает id мастеров по возрастанию
func SortedIDs(days map[int64]Day) []int64 {
	ids := make([]int64, 0, len(days))
	for id := range days {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
