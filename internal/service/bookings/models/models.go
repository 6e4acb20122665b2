package models

import (
	"errors"
	"time"

	"github.com/lumeo-app/booking-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidSessionType возвращается при некорректном типе сессии
	ErrInvalidSessionType = errors.New("invalid session type")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	ProviderID     int64             `json:"providerId"`
	Status         string            `json:"status"`
	SessionDetails map[string]string `json:"sessionDetails,omitempty"`
}

// GetClientBookingsRequest запрос на получение бронирований клиента
type GetClientBookingsRequest struct {
	ClientID int64   `json:"clientId"`
	Status   *string `json:"status,omitempty"`
}

// GetProviderBookingsRequest запрос на получение бронирований провайдера
type GetProviderBookingsRequest struct {
	UserID          int64      `json:"userId"`
	ProviderID      int64      `json:"providerId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	SessionType     *string    `json:"sessionType,omitempty"`     // Фильтр по типу сессии (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить завершённые и отменённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.ProviderBookingsFilter, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID:      r.ProviderID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if r.SessionType != nil {
		sessionType, err := ToDomainSessionType(*r.SessionType)
		if err != nil {
			return filter, err
		}
		filter.SessionType = &sessionType
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64  `json:"id"`
	ProviderID int64  `json:"providerId"`
	ClientID   int64  `json:"clientId"`
	EventID    *int64 `json:"eventId,omitempty"`

	SessionDate     string  `json:"sessionDate"` // "2026-03-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	TotalAmount     float64 `json:"totalAmount"`

	Status           string `json:"status"`
	ConfirmationType string `json:"confirmationType"`
	SessionType      string `json:"sessionType"`

	LiveStreamRoomName string `json:"liveStreamRoomName,omitempty"`
	LiveStreamStatus   string `json:"liveStreamStatus"`
	ReadyToStart       bool   `json:"readyToStart"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		ProviderID:         b.ProviderID,
		ClientID:           b.ClientID,
		EventID:            b.EventID,
		SessionDate:        b.SessionDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		TotalAmount:        b.TotalAmount,
		Status:             string(b.Status),
		ConfirmationType:   string(b.ConfirmationType),
		SessionType:        string(b.SessionType),
		LiveStreamRoomName: b.LiveStreamRoomName,
		LiveStreamStatus:   string(b.LiveStreamStatus),
		ReadyToStart:       b.ReadyToStart,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusCompleted,
		domain.StatusCancelled,
		domain.StatusRejected,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}

// ToDomainSessionType конвертирует строку в domain.SessionType с валидацией
func ToDomainSessionType(sessionType string) (domain.SessionType, error) {
	t := domain.SessionType(sessionType)

	if t != domain.SessionOneOnOne && t != domain.SessionOneToMany {
		return "", ErrInvalidSessionType
	}

	return t, nil
}
