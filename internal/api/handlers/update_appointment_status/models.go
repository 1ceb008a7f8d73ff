package update_appointment_status

import (
	"strings"

	"github.com/m04kA/SMC-SalonBookingService/internal/service/appointments/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(staffID int64) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		StaffID: staffID,
		Status:  strings.ToUpper(strings.TrimSpace(r.Status)),
	}
}
