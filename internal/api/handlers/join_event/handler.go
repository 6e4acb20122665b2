package join_event

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lumeo-app/booking-service/internal/api/handlers"
	"github.com/lumeo-app/booking-service/internal/api/middleware"
	joinEvent "github.com/lumeo-app/booking-service/internal/usecase/join_event"
)

const (
	msgInvalidEventID = "некорректный ID события"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgEventNotFound  = "событие не найдено"
	msgEventNotActive = "событие отменено или завершено"
	msgEventFull      = "все места заняты"
	msgEventStarted   = "событие уже прошло"
	msgAlreadyBooked  = "у вас уже есть бронирование этого события"
	msgSelfJoin       = "нельзя присоединиться к собственному событию"
	msgInvalidRequest = "некорректные входные данные"
)

type Handler struct {
	useCase JoinEventUseCase
	logger  Logger
}

func NewHandler(useCase JoinEventUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/events/{eventId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventIDStr := vars["eventId"]

	eventID, err := strconv.ParseInt(eventIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /events/{id}/bookings - Invalid event ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /events/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &joinEvent.Request{
		EventID:  eventID,
		ClientID: clientID,
	})
	if err != nil {
		switch {
		case errors.Is(err, joinEvent.ErrEventNotFound):
			h.logger.Warn("POST /events/{id}/bookings - Event not found: event_id=%d", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, joinEvent.ErrEventNotActive):
			h.logger.Warn("POST /events/{id}/bookings - Event not active: event_id=%d", eventID)
			handlers.RespondConflict(w, msgEventNotActive)

		case errors.Is(err, joinEvent.ErrEventFull):
			h.logger.Warn("POST /events/{id}/bookings - Event full: event_id=%d, client_id=%d", eventID, clientID)
			handlers.RespondConflict(w, msgEventFull)

		case errors.Is(err, joinEvent.ErrEventStarted):
			h.logger.Warn("POST /events/{id}/bookings - Event started: event_id=%d", eventID)
			handlers.RespondConflict(w, msgEventStarted)

		case errors.Is(err, joinEvent.ErrAlreadyBooked):
			h.logger.Warn("POST /events/{id}/bookings - Already booked: event_id=%d, client_id=%d", eventID, clientID)
			handlers.RespondConflict(w, msgAlreadyBooked)

		case errors.Is(err, joinEvent.ErrSelfJoin):
			h.logger.Warn("POST /events/{id}/bookings - Self join: event_id=%d, client_id=%d", eventID, clientID)
			handlers.RespondBadRequest(w, msgSelfJoin)

		case errors.Is(err, joinEvent.ErrInvalidInput):
			h.logger.Warn("POST /events/{id}/bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /events/{id}/bookings - Failed to join event: event_id=%d, client_id=%d, error=%v",
				eventID, clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /events/{id}/bookings - Joined successfully: booking_id=%d, event_id=%d, client_id=%d",
		result.ID, eventID, clientID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
