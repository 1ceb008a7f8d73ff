package cancel_appointment_group

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/service/appointments/models"
)

// CancelGroupRequest HTTP request model
type CancelGroupRequest struct {
	CancellationReason string `json:"cancellationReason" validate:"max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelGroupRequest) ToServiceRequest(staffID int64) *models.CancelGroupRequest {
	return &models.CancelGroupRequest{
		StaffID:            staffID,
		CancellationReason: r.CancellationReason,
	}
}
