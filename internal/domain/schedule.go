package domain

import (
	"time"

	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

// DaySchedule рабочие часы провайдера на один день недели
type DaySchedule struct {
	Available bool                `json:"available"`
	Start     timeslot.TimeString `json:"start,omitempty"`
	End       timeslot.TimeString `json:"end,omitempty"`
}

// Covers проверяет, что окно [startMin, endMin) целиком лежит внутри рабочих часов дня
func (d DaySchedule) Covers(startMin, endMin int) bool {
	if !d.Available {
		return false
	}
	return startMin >= d.Start.Minutes() && endMin <= d.End.Minutes()
}

// WeekSchedule недельный шаблон рабочих часов провайдера
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// ForDate возвращает расписание на день недели указанной даты
func (w WeekSchedule) ForDate(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{Available: false}
	}
}

// Validate проверяет, что для каждого доступного дня start < end
func (w WeekSchedule) Validate() bool {
	days := []DaySchedule{w.Monday, w.Tuesday, w.Wednesday, w.Thursday, w.Friday, w.Saturday, w.Sunday}
	for _, d := range days {
		if !d.Available {
			continue
		}
		if d.Start.Validate() != nil || d.End.Validate() != nil {
			return false
		}
		if !d.Start.IsBefore(d.End) {
			return false
		}
	}
	return true
}

// BookingSettings настройки бронирования провайдера
type BookingSettings struct {
	ID                int64
	ProviderID        int64
	ConfirmationType  ConfirmationType
	BufferTimeMinutes int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DefaultBookingSettings настройки, применяемые при отсутствии записи у провайдера
func DefaultBookingSettings(providerID int64) *BookingSettings {
	return &BookingSettings{
		ProviderID:        providerID,
		ConfirmationType:  ConfirmationAutomatic,
		BufferTimeMinutes: DefaultBufferTimeMinutes,
	}
}
