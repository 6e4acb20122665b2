package get_availability

import (
	"github.com/lumeo-app/booking-service/internal/domain"
	getAvailability "github.com/lumeo-app/booking-service/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ProviderID int64 `json:"providerId"`
	Days       []Day `json:"days"`
}

// Day доступность на один день
type Day struct {
	Date      string `json:"date"` // "2026-03-15"
	Available bool   `json:"available"`
	Slots     []Slot `json:"slots"`
}

// Slot один слот дня
type Slot struct {
	StartTime string `json:"startTime"` // "10:00"
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	days := make([]Day, len(resp.Days))
	for i, day := range resp.Days {
		slots := make([]Slot, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = Slot{
				StartTime: slot.StartTime.String(),
				Available: slot.Available,
			}
		}
		days[i] = Day{
			Date:      day.Date.Format(domain.DateFormat),
			Available: day.Available,
			Slots:     slots,
		}
	}

	return &AvailabilityResponse{
		ProviderID: resp.ProviderID,
		Days:       days,
	}
}
