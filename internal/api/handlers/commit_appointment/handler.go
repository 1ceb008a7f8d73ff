package commit_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	commitAppointment "github.com/m04kA/SMC-SalonBookingService/internal/usecase/commit_appointment"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDateOrTime     = "некорректный формат даты (YYYY-MM-DD) или времени начала (HH:MM)"
	msgSlotNotAvailable      = "выбранный слот уже занят, выберите другое время"
	msgInvalidSlot           = "слот нарушает правила выполнения услуг"
	msgIncompatibleServices  = "эти услуги нельзя совместить"
	msgServiceNotFound       = "услуга не найдена"
	msgProfessionalNotFound  = "мастер не найден"
	msgProfessionalNotQual   = "мастер не выполняет выбранную услугу"
	msgClientNotFound        = "клиент не найден"
	msgInvalidAppointmentDay = "некорректная дата записи"
	msgDateTooFar            = "дата записи слишком далеко в будущем"
	msgTooLateToBook         = "слишком поздно для записи на это время"
)

type Handler struct {
	useCase CommitAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CommitAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/commit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CommitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/commit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /appointments/commit - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments/commit - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, commitAppointment.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /appointments/commit - Slot no longer available: client_id=%d, date=%s", req.ClientID, req.Date)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, commitAppointment.ErrInvalidSlot):
			h.logger.Warn("POST /appointments/commit - Invalid slot: client_id=%d, error=%v", req.ClientID, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, commitAppointment.ErrIncompatibleServiceSet):
			h.logger.Warn("POST /appointments/commit - Incompatible services: client_id=%d", req.ClientID)
			handlers.RespondUnprocessable(w, msgIncompatibleServices)

		case errors.Is(err, commitAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments/commit - Service not found: client_id=%d", req.ClientID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, commitAppointment.ErrProfessionalNotFound):
			h.logger.Warn("POST /appointments/commit - Professional not found: client_id=%d", req.ClientID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, commitAppointment.ErrProfessionalNotQualified):
			h.logger.Warn("POST /appointments/commit - Professional not qualified: client_id=%d, error=%v", req.ClientID, err)
			handlers.RespondBadRequest(w, msgProfessionalNotQual)

		case errors.Is(err, commitAppointment.ErrClientNotFound):
			h.logger.Warn("POST /appointments/commit - Client not found: client_id=%d", req.ClientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, commitAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments/commit - Invalid date: client_id=%d, date=%s", req.ClientID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidAppointmentDay)

		case errors.Is(err, commitAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments/commit - Date too far in future: client_id=%d, date=%s", req.ClientID, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, commitAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments/commit - Too late to book: client_id=%d, date=%s", req.ClientID, req.Date)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, commitAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/commit - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /appointments/commit - Failed to commit appointment: client_id=%d, date=%s, error=%v",
				req.ClientID, req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments/commit - Appointment committed successfully: group_id=%d, client_id=%d, appointments=%d",
		result.ID, req.ClientID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusCreated, response)
}
