package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateInPast           = "дата уже прошла"
	msgDateTooFar           = "дата слишком далеко в будущем"
	msgServiceNotFound      = "услуга не найдена"
	msgIncompatibleServices = "эти услуги нельзя совместить"
	msgUnsatisfiableCount   = "недостаточно мастеров для выбранного числа исполнителей"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/availability/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AvailableSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /availability/slots - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /availability/slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("POST /availability/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("POST /availability/slots - Date in the past: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("POST /availability/slots - Date too far in future: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("POST /availability/slots - Service not found: services=%v", req.ServiceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrIncompatibleServiceSet):
			h.logger.Warn("POST /availability/slots - Incompatible services: services=%v", req.ServiceIDs)
			handlers.RespondUnprocessable(w, msgIncompatibleServices)

		case errors.Is(err, getAvailableSlots.ErrUnsatisfiableProfessionalCount):
			h.logger.Warn("POST /availability/slots - Unsatisfiable professional count: services=%v, requested=%d",
				req.ServiceIDs, req.ProfessionalsRequested)
			handlers.RespondUnprocessable(w, msgUnsatisfiableCount)

		default:
			h.logger.Error("POST /availability/slots - Failed to get slots: services=%v, date=%s, error=%v",
				req.ServiceIDs, req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /availability/slots - Slots retrieved successfully: services=%v, date=%s, slots_count=%d, total=%d",
		req.ServiceIDs, req.Date, len(result.Slots), result.Total)
	handlers.RespondJSON(w, http.StatusOK, response)
}
