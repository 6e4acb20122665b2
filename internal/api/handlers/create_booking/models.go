package create_booking

import (
	"time"

	"github.com/lumeo-app/booking-service/internal/domain"
	createBooking "github.com/lumeo-app/booking-service/internal/usecase/create_booking"
	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ProviderID      int64   `json:"providerId"`
	SessionDate     string  `json:"sessionDate"` // "2026-03-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	TotalAmount     float64 `json:"totalAmount"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                 int64   `json:"id"`
	ProviderID         int64   `json:"providerId"`
	ClientID           int64   `json:"clientId"`
	SessionDate        string  `json:"sessionDate"`
	StartTime          string  `json:"startTime"`
	DurationMinutes    int     `json:"durationMinutes"`
	TotalAmount        float64 `json:"totalAmount"`
	Status             string  `json:"status"`
	ConfirmationType   string  `json:"confirmationType"`
	SessionType        string  `json:"sessionType"`
	LiveStreamRoomName string  `json:"liveStreamRoomName"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64) (*createBooking.Request, error) {
	sessionDate, err := time.Parse(domain.DateFormat, r.SessionDate)
	if err != nil {
		return nil, err
	}

	startTime, err := timeslot.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ClientID:        clientID,
		ProviderID:      r.ProviderID,
		Date:            sessionDate,
		StartTime:       startTime,
		DurationMinutes: r.DurationMinutes,
		TotalAmount:     r.TotalAmount,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                 resp.ID,
		ProviderID:         resp.ProviderID,
		ClientID:           resp.ClientID,
		SessionDate:        resp.SessionDate.Format(domain.DateFormat),
		StartTime:          resp.StartTime.String(),
		DurationMinutes:    resp.DurationMinutes,
		TotalAmount:        resp.TotalAmount,
		Status:             resp.Status,
		ConfirmationType:   resp.ConfirmationType,
		SessionType:        resp.SessionType,
		LiveStreamRoomName: resp.LiveStreamRoomName,
		CreatedAt:          resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          resp.UpdatedAt.Format(time.RFC3339),
	}
}
