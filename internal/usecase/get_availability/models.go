package get_availability

import (
	"time"

	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

// Request модель запроса календаря доступности
type Request struct {
	ProviderID int64     // ID провайдера
	StartDate  time.Time // Начало диапазона (без времени)
	EndDate    time.Time // Конец диапазона (включительно)
}

// Response модель ответа с календарём доступности по дням
type Response struct {
	ProviderID int64 // ID провайдера
	Days       []Day // Дни диапазона в хронологическом порядке
}

// Day доступность провайдера на один день
type Day struct {
	Date      time.Time // Дата
	Available bool      // Есть ли хотя бы один свободный слот
	Slots     []Slot    // Слоты рабочего дня, пустой для нерабочих дней
}

// Slot один стандартный слот дня
type Slot struct {
	StartTime timeslot.TimeString // Время начала слота (например, "10:00")
	Available bool                // Свободен ли слот с учётом буферных зон
}
