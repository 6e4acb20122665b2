package update_booking_status

import (
	"github.com/lumeo-app/booking-service/internal/service/bookings/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status         string            `json:"status"`
	SessionDetails map[string]string `json:"sessionDetails,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(providerID int64) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		ProviderID:     providerID,
		Status:         r.Status,
		SessionDetails: r.SessionDetails,
	}
}
