package join_event

import (
	"time"

	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

// Request модель запроса на присоединение к событию
type Request struct {
	EventID  int64 // ID события
	ClientID int64 // ID клиента
}

// Response модель ответа с созданным бронированием участника
type Response struct {
	ID         int64 // ID созданного бронирования
	EventID    int64 // ID события
	ProviderID int64 // ID провайдера
	ClientID   int64 // ID клиента

	SessionDate     time.Time           // Дата события
	StartTime       timeslot.TimeString // Время начала
	DurationMinutes int                 // Длительность в минутах
	TotalAmount     float64             // Цена за участника

	Status           string // Статус бронирования
	ConfirmationType string // Режим подтверждения провайдера
	SessionType      string // Тип сессии

	LiveStreamRoomName string // Комната события, общая для всех участников

	CurrentParticipants int // Участников после присоединения
	MaxParticipants     int // Вместимость события

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
