package get_provider_events

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lumeo-app/booking-service/internal/api/handlers"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
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

// Handle GET /api/v1/providers/{providerId}/events?onlyUpcoming=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerIDStr := vars["providerId"]

	providerID, err := strconv.ParseInt(providerIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/events - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	onlyUpcoming := r.URL.Query().Get("onlyUpcoming") == "true"

	result, err := h.service.GetByProviderID(r.Context(), providerID, onlyUpcoming)
	if err != nil {
		h.logger.Error("GET /providers/{id}/events - Failed to get events: provider_id=%d, error=%v",
			providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/{id}/events - Retrieved %d events: provider_id=%d",
		len(result.Events), providerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
