package update_settings

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/service/settings/models"
)

// UpdateSettingsRequest HTTP request model.
// Границы значений проверяет сервис
type UpdateSettingsRequest struct {
	BlockSizeMinutes        *int `json:"blockSizeMinutes,omitempty"`
	AdvanceBookingDays      *int `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int `json:"minBookingNoticeMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(staffID int64) *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		StaffID:                 staffID,
		BlockSizeMinutes:        r.BlockSizeMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}
