package events

import "errors"

var (
	// ErrEventNotFound возвращается, когда событие не найдено
	ErrEventNotFound = errors.New("event not found")

	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("provider not found")

	// ErrProviderInactive возвращается, когда подписка провайдера не активна
	ErrProviderInactive = errors.New("provider subscription is not active")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrOutsideWorkingHours возвращается, когда событие не попадает в рабочие часы
	ErrOutsideWorkingHours = errors.New("event is outside provider working hours")

	// ErrTimeConflict возвращается при пересечении с существующими обязательствами
	ErrTimeConflict = errors.New("event conflicts with existing commitments")

	// ErrEventFinished возвращается при операции над завершённым или отменённым событием
	ErrEventFinished = errors.New("event is already finished")

	// ErrHasConfirmedBookings возвращается при удалении события с подтверждёнными бронированиями
	ErrHasConfirmedBookings = errors.New("event has confirmed bookings")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
