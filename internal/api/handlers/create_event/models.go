package create_event

import (
	"github.com/lumeo-app/booking-service/internal/service/events/models"
)

// CreateEventRequest HTTP request model
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	SessionDate     string `json:"sessionDate"` // "2026-03-15"
	StartTime       string `json:"startTime"`   // "10:00"
	DurationMinutes int    `json:"durationMinutes"`

	MaxParticipants int     `json:"maxParticipants"`
	PricePerPerson  float64 `json:"pricePerPerson"`

	IsPublic bool     `json:"isPublic"`
	Tags     []string `json:"tags,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateEventRequest) ToServiceRequest(providerID int64) *models.CreateEventRequest {
	return &models.CreateEventRequest{
		ProviderID:      providerID,
		Title:           r.Title,
		Description:     r.Description,
		SessionDate:     r.SessionDate,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		MaxParticipants: r.MaxParticipants,
		PricePerPerson:  r.PricePerPerson,
		IsPublic:        r.IsPublic,
		Tags:            r.Tags,
	}
}
