package list_appointments

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/appointments/models"
)

// ParseQuery собирает запрос сервиса из query параметров date, professionalId, status
func ParseQuery(q url.Values) (*models.ListAppointmentsRequest, error) {
	date, err := time.Parse(domain.DateFormat, q.Get("date"))
	if err != nil {
		return nil, err
	}

	req := &models.ListAppointmentsRequest{Date: date}

	if raw := q.Get("professionalId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ProfessionalID = &id
	}

	if raw := q.Get("status"); raw != "" {
		status := strings.ToUpper(raw)
		req.Status = &status
	}

	return req, nil
}
