package join_event

import (
	"time"

	"github.com/lumeo-app/booking-service/internal/domain"
	joinEvent "github.com/lumeo-app/booking-service/internal/usecase/join_event"
)

// JoinEventResponse HTTP response model
type JoinEventResponse struct {
	ID         int64 `json:"id"`
	EventID    int64 `json:"eventId"`
	ProviderID int64 `json:"providerId"`
	ClientID   int64 `json:"clientId"`

	SessionDate     string  `json:"sessionDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	TotalAmount     float64 `json:"totalAmount"`

	Status             string `json:"status"`
	ConfirmationType   string `json:"confirmationType"`
	SessionType        string `json:"sessionType"`
	LiveStreamRoomName string `json:"liveStreamRoomName"`

	CurrentParticipants int `json:"currentParticipants"`
	MaxParticipants     int `json:"maxParticipants"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *joinEvent.Response) *JoinEventResponse {
	return &JoinEventResponse{
		ID:                  resp.ID,
		EventID:             resp.EventID,
		ProviderID:          resp.ProviderID,
		ClientID:            resp.ClientID,
		SessionDate:         resp.SessionDate.Format(domain.DateFormat),
		StartTime:           resp.StartTime.String(),
		DurationMinutes:     resp.DurationMinutes,
		TotalAmount:         resp.TotalAmount,
		Status:              resp.Status,
		ConfirmationType:    resp.ConfirmationType,
		SessionType:         resp.SessionType,
		LiveStreamRoomName:  resp.LiveStreamRoomName,
		CurrentParticipants: resp.CurrentParticipants,
		MaxParticipants:     resp.MaxParticipants,
		CreatedAt:           resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           resp.UpdatedAt.Format(time.RFC3339),
	}
}
