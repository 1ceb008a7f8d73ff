package get_available_slots

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Request модель запроса на поиск слотов
type Request struct {
	ServiceIDs             []int64   // услуги в порядке выбора клиентом
	Date                   time.Time // дата (без времени)
	ProfessionalsRequested int       // 1..N, 0 = подобрать минимальное число
	ProfessionalIDs        []int64   // явный выбор мастеров (опционально)
	Limit                  int       // 0 = без ограничения
	Offset                 int
}

// Response модель ответа со списком слотов
type Response struct {
	Date              time.Time
	Slots             []Slot
	Total             int  // число слотов до пагинации
	Truncated         bool // поиск прерван, список может быть неполным
	ProfessionalsUsed int
}

// Slot вариант времени для всего набора услуг
type Slot struct {
	StartTime            types.TimeString
	EndTime              types.TimeString
	TotalDurationMinutes int
	TotalPrice           decimal.Decimal
	Assignments          []Assignment
}

// Assignment услуга, назначенная мастеру
type Assignment struct {
	ServiceID      int64
	ProfessionalID int64
	StartTime      types.TimeString
	EndTime        types.TimeString
}
