package delete_event

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
	msgInvalidEventID       = "некорректный ID события"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "событие не найдено"
	msgForbidden            = "доступ запрещен"
	msgHasConfirmedBookings = "у события есть подтверждённые бронирования"
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

// Handle DELETE /api/v1/events/{eventId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventIDStr := vars["eventId"]

	eventID, err := strconv.ParseInt(eventIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /events/{id} - Invalid event ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	providerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /events/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.service.Delete(r.Context(), eventID, providerID)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrEventNotFound):
			h.logger.Warn("DELETE /events/{id} - Event not found: event_id=%d", eventID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, events.ErrAccessDenied):
			h.logger.Warn("DELETE /events/{id} - Access denied: event_id=%d, user_id=%d", eventID, providerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, events.ErrHasConfirmedBookings):
			h.logger.Warn("DELETE /events/{id} - Has confirmed bookings: event_id=%d", eventID)
			handlers.RespondConflict(w, msgHasConfirmedBookings)

		default:
			h.logger.Error("DELETE /events/{id} - Failed to delete event: event_id=%d, error=%v", eventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /events/{id} - Event deleted successfully: event_id=%d, provider_id=%d",
		eventID, providerID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
