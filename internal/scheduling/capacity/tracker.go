// Package capacity считает занятость станций по типам на одну дату
package capacity

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Usage занятие qty станций типа StationTypeID на интервал
type Usage struct {
	StationTypeID int64
	Qty           int
	Interval      types.Interval
}

// FromStationUsage переводит занятость станций из записей в интервалы
func FromStationUsage(usage []domain.StationUsage) ([]Usage, error) {
	out := make([]Usage, 0, len(usage))
	for _, u := range usage {
		iv, err := types.NewIntervalFromTimes(u.StartTime, u.EndTime)
		if err != nil {
			return nil, fmt.Errorf("appointment id=%d: %w", u.AppointmentID, err)
		}
		out = append(out, Usage{StationTypeID: u.StationTypeID, Qty: u.Qty, Interval: iv})
	}
	return out, nil
}

// Tracker занятость станций на дату. После создания только читается и безопасен для конкурентного использования.
type Tracker struct {
	inventory map[int64]int
	occupied  map[int64][]Usage
}

// NewTracker создает трекер из количества активных станций по типам и уже занятых станций
func NewTracker(inventory map[int64]int, occupied []Usage) *Tracker {
	t := &Tracker{
		inventory: make(map[int64]int, len(inventory)),
		occupied:  make(map[int64][]Usage),
	}
	for typeID, count := range inventory {
		t.inventory[typeID] = count
	}
	for _, u := range occupied {
		if u.Qty <= 0 {
			continue
		}
		t.occupied[u.StationTypeID] = append(t.occupied[u.StationTypeID], u)
	}
	return t
}

// Capacity количество активных станций типа
func (t *Tracker) Capacity(stationTypeID int64) int {
	return t.inventory[stationTypeID]
}

// AvailableCapacity минимальное число свободных станций типа на протяжении интервала
func (t *Tracker) AvailableCapacity(stationTypeID int64, interval types.Interval) int {
	free := t.inventory[stationTypeID] - peak(t.occupied[stationTypeID], interval)
	if free < 0 {
		return 0
	}
	return free
}

// Fits проверяет, что все demands помещаются одновременно вместе с уже занятыми станциями
func (t *Tracker) Fits(demands []Usage) bool {
	byType := make(map[int64][]Usage)
	for _, d := range demands {
		if d.Qty <= 0 {
			continue
		}
		byType[d.StationTypeID] = append(byType[d.StationTypeID], d)
	}

	for typeID, typeDemands := range byType {
		capacity := t.inventory[typeID]
		combined := make([]Usage, 0, len(t.occupied[typeID])+len(typeDemands))
		combined = append(combined, t.occupied[typeID]...)
		combined = append(combined, typeDemands...)

		for _, d := range typeDemands {
			if peak(combined, d.Interval) > capacity {
				return false
			}
		}
	}
	return true
}

type event struct {
	at    int
	delta int
}

// peak максимальная одновременная занятость внутри window (заметающая прямая).
// Окончания обрабатываются раньше начал в одной точке: интервалы полуоткрытые.
func peak(usages []Usage, window types.Interval) int {
	events := make([]event, 0, len(usages)*2)
	for _, u := range usages {
		clipped, ok := types.Intersect(u.Interval, window)
		if !ok {
			continue
		}
		events = append(events, event{at: clipped.Start(), delta: u.Qty}, event{at: clipped.End(), delta: -u.Qty})
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].delta < events[j].delta
	})

	current, maximum := 0, 0
	for _, e := range events {
		current += e.delta
		if current > maximum {
			maximum = current
		}
	}
	return maximum
}
