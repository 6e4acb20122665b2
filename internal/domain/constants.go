package domain

// Default values
const (
	DefaultBufferTimeMinutes      = 15
	DefaultSessionDurationMinutes = 60

	// SlotStrideMinutes фиксированный шаг генерации слотов в календаре доступности
	SlotStrideMinutes = 60

	// ReadyToStartWindowMinutes за сколько минут до начала сессия помечается готовой к старту
	ReadyToStartWindowMinutes = 15
)

// Business validation constants
const (
	MinEventParticipants = 2
	MaxEventParticipants = 10000

	MinSessionDurationMinutes = 15
	MaxSessionDurationMinutes = 480 // 8 часов

	MaxAvailabilityRangeDays = 31

	MaxCancellationReasonLength = 500
	MaxEventTitleLength         = 200
	MaxEventDescriptionLength   = 2000
	MaxEventTags                = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveBookingStatuses статусы, блокирующие календарь провайдера
// Pending блокирует слот наравне с confirmed: неподтверждённый запрос
// условно удерживает время до решения провайдера
var ActiveBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalBookingStatuses финальные статусы бронирования
var TerminalBookingStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}
