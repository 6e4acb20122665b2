package create_booking

import (
	"time"

	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID        int64               // ID клиента
	ProviderID      int64               // ID провайдера
	Date            time.Time           // Дата сессии (без времени)
	StartTime       timeslot.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int                 // Длительность в минутах, 0 - значение по умолчанию
	TotalAmount     float64             // Стоимость сессии
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64               // ID созданного бронирования
	ProviderID      int64               // ID провайдера
	ClientID        int64               // ID клиента
	SessionDate     time.Time           // Дата сессии
	StartTime       timeslot.TimeString // Время начала
	DurationMinutes int                 // Длительность в минутах
	TotalAmount     float64             // Стоимость сессии

	Status           string // Статус бронирования
	ConfirmationType string // Режим подтверждения провайдера
	SessionType      string // Тип сессии

	LiveStreamRoomName string // Имя комнаты для live-трансляции

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
