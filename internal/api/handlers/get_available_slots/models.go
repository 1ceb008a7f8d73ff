package get_available_slots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_available_slots"
)

const professionalsAuto = "auto"

// ProfessionalsCount число мастеров: целое число или "auto"
type ProfessionalsCount int

// UnmarshalJSON принимает 1..N или строку "auto" (0 - подобрать минимальное число)
func (c *ProfessionalsCount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != professionalsAuto {
			return fmt.Errorf("professionalsRequested: unexpected value %q", s)
		}
		*c = 0
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("professionalsRequested: %w", err)
	}
	*c = ProfessionalsCount(n)
	return nil
}

// AvailableSlotsRequest HTTP request model
type AvailableSlotsRequest struct {
	ServiceIDs             []int64            `json:"serviceIds" validate:"required,min=1,max=10,dive,gt=0"`
	Date                   string             `json:"date" validate:"required"` // "2025-10-15"
	ProfessionalsRequested ProfessionalsCount `json:"professionalsRequested" validate:"gte=0"`
	ProfessionalIDs        []int64            `json:"professionalIds,omitempty" validate:"omitempty,dive,gt=0"`
	Limit                  int                `json:"limit,omitempty" validate:"gte=0"`
	Offset                 int                `json:"offset,omitempty" validate:"gte=0"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date              string          `json:"date"`
	Slots             []AvailableSlot `json:"slots"`
	Total             int             `json:"total"`
	Truncated         bool            `json:"truncated"`
	ProfessionalsUsed int             `json:"professionalsUsed"`
}

// AvailableSlot вариант времени для всего набора услуг
type AvailableSlot struct {
	StartTime            string       `json:"startTime"`
	EndTime              string       `json:"endTime"`
	TotalDurationMinutes int          `json:"totalDurationMinutes"`
	TotalPrice           string       `json:"totalPrice"`
	Assignments          []Assignment `json:"assignments"`
}

// Assignment услуга, назначенная мастеру
type Assignment struct {
	ServiceID      int64  `json:"serviceId"`
	ProfessionalID int64  `json:"professionalId"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *AvailableSlotsRequest) ToUseCaseRequest() (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ServiceIDs:             r.ServiceIDs,
		Date:                   date,
		ProfessionalsRequested: int(r.ProfessionalsRequested),
		ProfessionalIDs:        r.ProfessionalIDs,
		Limit:                  r.Limit,
		Offset:                 r.Offset,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		assignments := make([]Assignment, len(slot.Assignments))
		for j, a := range slot.Assignments {
			assignments[j] = Assignment{
				ServiceID:      a.ServiceID,
				ProfessionalID: a.ProfessionalID,
				StartTime:      a.StartTime.String(),
				EndTime:        a.EndTime.String(),
			}
		}
		slots[i] = AvailableSlot{
			StartTime:            slot.StartTime.String(),
			EndTime:              slot.EndTime.String(),
			TotalDurationMinutes: slot.TotalDurationMinutes,
			TotalPrice:           slot.TotalPrice.StringFixed(2),
			Assignments:          assignments,
		}
	}

	return &AvailableSlotsResponse{
		Date:              resp.Date.Format(domain.DateFormat),
		Slots:             slots,
		Total:             resp.Total,
		Truncated:         resp.Truncated,
		ProfessionalsUsed: resp.ProfessionalsUsed,
	}
}
