package create_event

import (
	"errors"
	"net/http"

	"github.com/lumeo-app/booking-service/internal/api/handlers"
	"github.com/lumeo-app/booking-service/internal/api/middleware"
	"github.com/lumeo-app/booking-service/internal/service/events"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgProviderNotFound    = "провайдер не найден"
	msgProviderInactive    = "подписка провайдера не активна"
	msgOutsideWorkingHours = "событие вне рабочих часов"
	msgTimeConflict        = "событие пересекается с существующими обязательствами"
)

type Handler struct {
	service EventService
	logger  Logger
}

func NewHandler(service EventService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/events
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /events - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /events - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), req.ToServiceRequest(providerID))
	if err != nil {
		switch {
		case errors.Is(err, events.ErrProviderNotFound):
			h.logger.Warn("POST /events - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, events.ErrProviderInactive):
			h.logger.Warn("POST /events - Provider inactive: provider_id=%d", providerID)
			handlers.RespondForbidden(w, msgProviderInactive)

		case errors.Is(err, events.ErrOutsideWorkingHours):
			h.logger.Warn("POST /events - Outside working hours: provider_id=%d", providerID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, events.ErrTimeConflict):
			h.logger.Warn("POST /events - Time conflict: provider_id=%d", providerID)
			handlers.RespondConflict(w, msgTimeConflict)

		case errors.Is(err, events.ErrInvalidInput):
			h.logger.Warn("POST /events - Invalid input: provider_id=%d, error=%v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /events - Failed to create event: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /events - Event created successfully: event_id=%d, provider_id=%d", result.ID, providerID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
