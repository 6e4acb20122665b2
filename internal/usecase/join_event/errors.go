package join_event

import "errors"

var (
	// ErrEventNotFound возвращается, когда событие не найдено
	ErrEventNotFound = errors.New("join_event: event not found")

	// ErrEventNotActive возвращается, когда событие отменено или завершено
	ErrEventNotActive = errors.New("join_event: event is not active")

	// ErrEventFull возвращается, когда все места заняты
	ErrEventFull = errors.New("join_event: event is full")

	// ErrEventStarted возвращается, когда событие уже прошло
	ErrEventStarted = errors.New("join_event: event has already started")

	// ErrAlreadyBooked возвращается, когда у клиента уже есть активное бронирование события
	ErrAlreadyBooked = errors.New("join_event: client already has an active booking for this event")

	// ErrSelfJoin возвращается при попытке провайдера присоединиться к своему событию
	ErrSelfJoin = errors.New("join_event: provider cannot join own event")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("join_event: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("join_event: internal error")
)
