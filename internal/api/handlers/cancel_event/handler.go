package cancel_event

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lumeo-app/booking-service/internal/api/handlers"
	"github.com/lumeo-app/booking-service/internal/api/middleware"
	"github.com/lumeo-app/booking-service/internal/service/events"
)

const (
	msgInvalidEventID     = "некорректный ID события"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "событие не найдено"
	msgForbidden          = "доступ запрещен"
	msgEventFinished      = "событие уже завершено или отменено"
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

// Handle PATCH /api/v1/events/{eventId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventIDStr := vars["eventId"]

	eventID, err := strconv.ParseInt(eventIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /events/{id}/cancel - Invalid event ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	providerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /events/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /events/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.service.Cancel(r.Context(), eventID, req.ToServiceRequest(providerID))
	if err != nil {
		switch {
		case errors.Is(err, events.ErrEventNotFound):
			h.logger.Warn("PATCH /events/{id}/cancel - Event not found: event_id=%d", eventID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, events.ErrAccessDenied):
			h.logger.Warn("PATCH /events/{id}/cancel - Access denied: event_id=%d, user_id=%d", eventID, providerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, events.ErrEventFinished):
			h.logger.Warn("PATCH /events/{id}/cancel - Event finished: event_id=%d", eventID)
			handlers.RespondConflict(w, msgEventFinished)

		default:
			h.logger.Error("PATCH /events/{id}/cancel - Failed to cancel event: event_id=%d, error=%v", eventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /events/{id}/cancel - Event cancelled successfully: event_id=%d, provider_id=%d",
		eventID, providerID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
