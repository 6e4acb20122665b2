package get_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInvalidDateRange возвращается, когда endDate раньше startDate
	ErrInvalidDateRange = errors.New("get_availability: invalid date range")

	// ErrRangeTooLarge возвращается при превышении максимального диапазона дат
	ErrRangeTooLarge = errors.New("get_availability: date range is too large")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
