package cancel_event

import (
	"context"

	"github.com/lumeo-app/booking-service/internal/service/events/models"
)

type EventService interface {
	Cancel(ctx context.Context, eventID int64, req *models.CancelEventRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
