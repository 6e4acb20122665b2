package get_provider_events

import (
	"context"

	"github.com/lumeo-app/booking-service/internal/service/events/models"
)

type EventService interface {
	GetByProviderID(ctx context.Context, providerID int64, onlyUpcoming bool) (*models.EventListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
