package start_session

import (
	"context"
)

type BookingService interface {
	StartSession(ctx context.Context, bookingID int64, providerID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
