package sweeps

import (
	"context"
	"time"

	"github.com/lumeo-app/booking-service/internal/domain"
	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListExpiredConfirmed(ctx context.Context, now time.Time) ([]*domain.Booking, error)
	CompleteSession(ctx context.Context, id int64) error
	ListReadyCandidates(ctx context.Context, date time.Time, maxStart timeslot.TimeString) ([]*domain.Booking, error)
	SetReadyToStart(ctx context.Context, id int64) error
}

// EventRepository интерфейс репозитория событий
type EventRepository interface {
	ListExpiredActive(ctx context.Context, now time.Time) ([]*domain.Event, error)
	Complete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider абстракция над часами для тестируемости
type TimeProvider interface {
	Now() time.Time
}
