package create_booking

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("create_booking: provider not found")

	// ErrProviderInactive возвращается, когда подписка провайдера не активна
	ErrProviderInactive = errors.New("create_booking: provider subscription is not active")

	// ErrSelfBooking возвращается при попытке забронировать сессию у самого себя
	ErrSelfBooking = errors.New("create_booking: provider cannot book own session")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrProviderClosed возвращается, когда провайдер не работает в указанную дату
	ErrProviderClosed = errors.New("create_booking: provider is not available on this date")

	// ErrOutsideWorkingHours возвращается, когда слот не попадает в рабочие часы
	ErrOutsideWorkingHours = errors.New("create_booking: slot is outside provider working hours")

	// ErrSlotConflict возвращается при пересечении с существующими обязательствами
	ErrSlotConflict = errors.New("create_booking: slot conflicts with existing commitments")

	// ErrSlotBusy возвращается, когда слот обрабатывается конкурентным запросом
	ErrSlotBusy = errors.New("create_booking: slot is being processed, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
