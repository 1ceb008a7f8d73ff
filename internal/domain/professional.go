package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Professional мастер салона
type Professional struct {
	ID         int64
	Name       string
	Active     bool
	ServiceIDs []int64 // услуги, которые выполняет мастер
}

// Offers проверяет, выполняет ли мастер услугу
func (p *Professional) Offers(serviceID int64) bool {
	for _, id := range p.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// OffersAll проверяет, выполняет ли мастер все перечисленные услуги
func (p *Professional) OffersAll(serviceIDs []int64) bool {
	for _, id := range serviceIDs {
		if !p.Offers(id) {
			return false
		}
	}
	return true
}

// ProfessionalAvailability еженедельное окно работы мастера
type ProfessionalAvailability struct {
	ID             int64
	ProfessionalID int64
	DayOfWeek      int // 0 = воскресенье
	StartTime      types.TimeString
	EndTime        types.TimeString
}

// Interval возвращает окно как интервал
func (a *ProfessionalAvailability) Interval() (types.Interval, error) {
	return types.NewIntervalFromTimes(a.StartTime, a.EndTime)
}

// ProfessionalBreak еженедельный перерыв мастера
type ProfessionalBreak struct {
	ID             int64
	ProfessionalID int64
	DayOfWeek      int
	StartTime      types.TimeString
	EndTime        types.TimeString
	Name           string
}

// Interval возвращает перерыв как интервал
func (b *ProfessionalBreak) Interval() (types.Interval, error) {
	return types.NewIntervalFromTimes(b.StartTime, b.EndTime)
}

// ProfessionalBlockedTime разовая блокировка времени мастера на конкретную дату
type ProfessionalBlockedTime struct {
	ID             int64
	ProfessionalID int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	Reason         *string
	BlockType      string
}

// Interval возвращает блокировку как интервал
func (b *ProfessionalBlockedTime) Interval() (types.Interval, error) {
	return types.NewIntervalFromTimes(b.StartTime, b.EndTime)
}
