package events

import (
	"context"
	"time"

	"github.com/lumeo-app/booking-service/internal/domain"
	"github.com/lumeo-app/booking-service/internal/integrations/notifyservice"
	"github.com/lumeo-app/booking-service/internal/integrations/providerservice"
)

// EventRepository интерфейс репозитория событий
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	GetActiveByProviderAndDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.Event, error)
	GetByProviderID(ctx context.Context, providerID int64, onlyUpcoming bool) ([]*domain.Event, error)
	UpdateStatus(ctx context.Context, id int64, status domain.EventStatus) error
	Delete(ctx context.Context, id int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	GetByEventID(ctx context.Context, eventID int64, onlyActive bool) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) error
	DeleteNonConfirmedByEventID(ctx context.Context, eventID int64) error
}

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	GetByProviderID(ctx context.Context, providerID int64) (*domain.BookingSettings, error)
}

// ProviderServiceClient интерфейс клиента для ProviderService
type ProviderServiceClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerservice.Provider, error)
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
