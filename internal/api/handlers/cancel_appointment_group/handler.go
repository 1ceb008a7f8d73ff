package cancel_appointment_group

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/appointments"
)

const (
	msgInvalidGroupID     = "некорректный ID группы записей"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "группа записей не найдена"
	msgCannotCancel       = "визит уже начался или завершён, отмена невозможна"
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

// Handle PATCH /api/v1/appointment-groups/{groupId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем groupId из URL
	groupID, err := strconv.ParseInt(mux.Vars(r)["groupId"], 10, 64)
	if err != nil || groupID <= 0 {
		h.logger.Warn("PATCH /appointment-groups/{id}/cancel - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	staffID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointment-groups/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Тело опционально: причина отмены может отсутствовать
	var req CancelGroupRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /appointment-groups/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("PATCH /appointment-groups/{id}/cancel - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	group, err := h.service.CancelGroup(r.Context(), groupID, req.ToServiceRequest(staffID))
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrGroupNotFound):
			h.logger.Warn("PATCH /appointment-groups/{id}/cancel - Group not found: group_id=%d", groupID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrCannotCancel):
			h.logger.Warn("PATCH /appointment-groups/{id}/cancel - Cannot cancel: group_id=%d", groupID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("PATCH /appointment-groups/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /appointment-groups/{id}/cancel - Failed to cancel group: group_id=%d, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointment-groups/{id}/cancel - Group cancelled successfully: group_id=%d, staff_id=%d",
		groupID, staffID)
	handlers.RespondJSON(w, http.StatusOK, group)
}
