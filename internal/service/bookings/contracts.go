package bookings

import (
	"context"
	"time"

	"github.com/lumeo-app/booking-service/internal/domain"
	"github.com/lumeo-app/booking-service/internal/integrations/notifyservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
	SetLiveStreamStatus(ctx context.Context, id int64, status domain.LiveStreamStatus) error
	CompleteSession(ctx context.Context, id int64) error
}

// EventRepository интерфейс репозитория событий
type EventRepository interface {
	AdjustParticipants(ctx context.Context, eventID int64, delta int) (*domain.Event, error)
	SetLiveStreamStatus(ctx context.Context, id int64, status domain.LiveStreamStatus) error
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	SendAsync(n notifyservice.Notification)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
