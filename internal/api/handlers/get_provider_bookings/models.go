package get_provider_bookings

import (
	"net/url"
	"time"

	"github.com/lumeo-app/booking-service/internal/domain"
	"github.com/lumeo-app/booking-service/internal/service/bookings/models"
)

// ParseQuery собирает фильтры из query-параметров запроса
func ParseQuery(query url.Values, userID, providerID int64) (*models.GetProviderBookingsRequest, error) {
	req := &models.GetProviderBookingsRequest{
		UserID:     userID,
		ProviderID: providerID,
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if sessionType := query.Get("sessionType"); sessionType != "" {
		req.SessionType = &sessionType
	}

	req.IncludeInactive = query.Get("includeInactive") == "true"

	return req, nil
}
