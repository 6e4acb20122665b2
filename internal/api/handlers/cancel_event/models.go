package cancel_event

import (
	"github.com/lumeo-app/booking-service/internal/service/events/models"
)

// CancelEventRequest HTTP request model
type CancelEventRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelEventRequest) ToServiceRequest(providerID int64) *models.CancelEventRequest {
	return &models.CancelEventRequest{
		ProviderID: providerID,
		Reason:     r.Reason,
	}
}
