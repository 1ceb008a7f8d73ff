package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Request модели

// UpdateSettingsRequest запрос на обновление настроек расписания.
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	StaffID                 int64 `json:"staffId"`
	BlockSizeMinutes        *int  `json:"blockSizeMinutes,omitempty"`
	AdvanceBookingDays      *int  `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int  `json:"minBookingNoticeMinutes,omitempty"`
}

// Response модели

// SettingsResponse ответ с настройками расписания
type SettingsResponse struct {
	BlockSizeMinutes        int        `json:"blockSizeMinutes"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"` // 0 = без ограничений
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	IsDefault               bool       `json:"isDefault"` // салон ещё не сохранял настройки
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.SchedulingSettings, isDefault bool) *SettingsResponse {
	if s == nil {
		return nil
	}

	resp := &SettingsResponse{
		BlockSizeMinutes:        s.BlockSizeMinutes,
		AdvanceBookingDays:      s.AdvanceBookingDays,
		MinBookingNoticeMinutes: s.MinBookingNoticeMinutes,
		IsDefault:               isDefault,
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}

// ApplyToSettings применяет обновления к настройкам.
// Обновляются только непустые (not nil) поля из request
func (r *UpdateSettingsRequest) ApplyToSettings(s *domain.SchedulingSettings) {
	if r.BlockSizeMinutes != nil {
		s.BlockSizeMinutes = *r.BlockSizeMinutes
	}
	if r.AdvanceBookingDays != nil {
		s.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		s.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
}
