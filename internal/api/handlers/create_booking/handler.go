package create_booking

import (
	"errors"
	"net/http"

	"github.com/lumeo-app/booking-service/internal/api/handlers"
	"github.com/lumeo-app/booking-service/internal/api/middleware"
	createBooking "github.com/lumeo-app/booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgProviderNotFound    = "провайдер не найден"
	msgProviderInactive    = "подписка провайдера не активна"
	msgSelfBooking         = "нельзя забронировать сессию у самого себя"
	msgSlotConflict        = "выбранный временной слот недоступен"
	msgSlotBusy            = "слот обрабатывается другим запросом, повторите попытку"
	msgProviderClosed      = "провайдер не работает в выбранную дату"
	msgOutsideWorkingHours = "слот вне рабочих часов провайдера"
	msgInvalidBookingDate  = "некорректная дата бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: client_id=%d, provider_id=%d", clientID, req.ProviderID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createBooking.ErrSlotBusy):
			h.logger.Warn("POST /bookings - Slot busy: client_id=%d, provider_id=%d", clientID, req.ProviderID)
			handlers.RespondConflict(w, msgSlotBusy)

		case errors.Is(err, createBooking.ErrProviderNotFound):
			h.logger.Warn("POST /bookings - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, createBooking.ErrProviderInactive):
			h.logger.Warn("POST /bookings - Provider inactive: provider_id=%d", req.ProviderID)
			handlers.RespondForbidden(w, msgProviderInactive)

		case errors.Is(err, createBooking.ErrSelfBooking):
			h.logger.Warn("POST /bookings - Self booking attempt: client_id=%d", clientID)
			handlers.RespondBadRequest(w, msgSelfBooking)

		case errors.Is(err, createBooking.ErrProviderClosed):
			h.logger.Warn("POST /bookings - Provider closed: client_id=%d, provider_id=%d", clientID, req.ProviderID)
			handlers.RespondBadRequest(w, msgProviderClosed)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: client_id=%d, provider_id=%d", clientID, req.ProviderID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: client_id=%d, provider_id=%d", clientID, req.ProviderID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: client_id=%d, error=%v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%d, provider_id=%d, error=%v",
				clientID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, client_id=%d, provider_id=%d",
		result.ID, clientID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
