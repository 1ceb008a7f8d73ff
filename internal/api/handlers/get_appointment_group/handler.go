package get_appointment_group

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/appointments"
)

const (
	msgInvalidGroupID = "некорректный ID группы записей"
	msgNotFound       = "группа записей не найдена"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointment-groups/{groupId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем groupId из URL
	groupID, err := strconv.ParseInt(mux.Vars(r)["groupId"], 10, 64)
	if err != nil || groupID <= 0 {
		h.logger.Warn("GET /appointment-groups/{id} - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	group, err := h.service.GetGroup(r.Context(), groupID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrGroupNotFound):
			h.logger.Warn("GET /appointment-groups/{id} - Group not found: group_id=%d", groupID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /appointment-groups/{id} - Failed to get group: group_id=%d, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointment-groups/{id} - Group retrieved successfully: group_id=%d", groupID)
	handlers.RespondJSON(w, http.StatusOK, group)
}
