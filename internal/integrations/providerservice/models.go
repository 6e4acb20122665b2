package providerservice

import "github.com/lumeo-app/booking-service/internal/domain"

// Provider модель провайдера из ProviderService
type Provider struct {
	ID                 int64               `json:"id"`
	DisplayName        string              `json:"display_name"`
	SubscriptionActive bool                `json:"subscription_active"`
	OpenHours          domain.WeekSchedule `json:"open_hours"`
}

// ErrorResponse модель ошибки от ProviderService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
