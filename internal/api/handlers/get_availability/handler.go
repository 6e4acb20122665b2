package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/lumeo-app/booking-service/internal/api/handlers"
	"github.com/lumeo-app/booking-service/internal/domain"
	getAvailability "github.com/lumeo-app/booking-service/internal/usecase/get_availability"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgInvalidDateFormat = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingDates      = "параметры startDate и endDate обязательны"
	msgInvalidDateRange  = "endDate не может быть раньше startDate"
	msgRangeTooLarge     = "слишком большой диапазон дат"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/availability?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerIDStr := vars["providerId"]

	providerID, err := strconv.ParseInt(providerIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/availability - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	startDateStr := r.URL.Query().Get("startDate")
	endDateStr := r.URL.Query().Get("endDate")

	if startDateStr == "" || endDateStr == "" {
		h.logger.Warn("GET /providers/{id}/availability - Missing date params: provider_id=%d", providerID)
		handlers.RespondBadRequest(w, msgMissingDates)
		return
	}

	startDate, err := time.Parse(domain.DateFormat, startDateStr)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/availability - Invalid startDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateFormat)
		return
	}

	endDate, err := time.Parse(domain.DateFormat, endDateStr)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/availability - Invalid endDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateFormat)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		ProviderID: providerID,
		StartDate:  startDate,
		EndDate:    endDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidDateRange):
			h.logger.Warn("GET /providers/{id}/availability - Invalid date range: provider_id=%d", providerID)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, getAvailability.ErrRangeTooLarge):
			h.logger.Warn("GET /providers/{id}/availability - Range too large: provider_id=%d", providerID)
			handlers.RespondBadRequest(w, msgRangeTooLarge)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /providers/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProviderID)

		default:
			h.logger.Error("GET /providers/{id}/availability - Failed to get availability: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /providers/{id}/availability - Calculated %d days: provider_id=%d",
		len(response.Days), providerID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
