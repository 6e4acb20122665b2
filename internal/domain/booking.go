package domain

import (
	"time"

	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusRejected  BookingStatus = "rejected"
)

// SessionType represents how a session is delivered
type SessionType string

const (
	SessionOneOnOne  SessionType = "one_on_one"
	SessionOneToMany SessionType = "one_to_many"
)

// ConfirmationType controls whether a new booking needs provider approval
type ConfirmationType string

const (
	ConfirmationAutomatic ConfirmationType = "automatic"
	ConfirmationManual    ConfirmationType = "manual"
)

// LiveStreamStatus is an orthogonal sub-state of a booking's live session
type LiveStreamStatus string

const (
	LiveStreamNotStarted LiveStreamStatus = "not_started"
	LiveStreamLive       LiveStreamStatus = "live"
	LiveStreamEnded      LiveStreamStatus = "ended"
)

// Booking represents one scheduled session between a provider and a client
type Booking struct {
	ID         int64
	ProviderID int64
	ClientID   int64
	// EventID установлен только для event-бронирований (SessionType = one_to_many)
	// Это обратная ссылка для поиска, событие не владеет временем жизни бронирования
	EventID *int64

	SessionDate     time.Time
	StartTime       timeslot.TimeString
	DurationMinutes int
	TotalAmount     float64

	Status           BookingStatus
	ConfirmationType ConfirmationType
	SessionType      SessionType

	LiveStreamRoomName string
	LiveStreamStatus   LiveStreamStatus
	// ReadyToStart выставляется фоновой зачисткой за 15 минут до начала сессии
	// Отдельный флаг вместо переиспользования статуса pending
	ReadyToStart bool

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true when the booking reached a final state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusRejected
}

// IsActive returns true if the booking still blocks the provider's calendar
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsEventBooking returns true for bookings created by joining a group event
func (b *Booking) IsEventBooking() bool {
	return b.SessionType == SessionOneToMany && b.EventID != nil
}

// EndMinutes returns the end of the session as minutes from midnight
func (b *Booking) EndMinutes() int {
	return b.StartTime.Minutes() + b.DurationMinutes
}

// EndsBefore reports whether the session is already over at the given moment
func (b *Booking) EndsBefore(now time.Time) bool {
	y, m, d := b.SessionDate.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, b.SessionDate.Location()).
		Add(time.Duration(b.EndMinutes()) * time.Minute)
	return end.Before(now)
}

// CanTransitionTo проверяет допустимость перехода статуса
// pending -> confirmed | cancelled | rejected
// confirmed -> completed | cancelled | rejected
// Терминальные статусы неизменяемы
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled || next == StatusRejected
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled || next == StatusRejected
	default:
		return false
	}
}

// ProviderBookingsFilter фильтр для получения бронирований провайдера
type ProviderBookingsFilter struct {
	ProviderID      int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	SessionType     *SessionType   // Фильтр по типу сессии (опционально)
	IncludeInactive bool           // Включать ли завершённые/отменённые бронирования
}
