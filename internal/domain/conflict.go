package domain

import "github.com/lumeo-app/booking-service/pkg/timeslot"

// Commitment занятое окно в календаре провайдера (бронирование или событие)
// Единое представление для проверки конфликтов: и календарь доступности,
// и guard при создании используют один и тот же алгоритм
type Commitment struct {
	StartMinutes    int
	DurationMinutes int
}

// CommitmentsFromBookings собирает занятые окна из активных (pending/confirmed) бронирований
func CommitmentsFromBookings(bookings []*Booking) []Commitment {
	commitments := make([]Commitment, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		commitments = append(commitments, Commitment{
			StartMinutes:    b.StartTime.Minutes(),
			DurationMinutes: b.DurationMinutes,
		})
	}
	return commitments
}

// CommitmentsFromEvents собирает занятые окна из активных событий
// excludeEventID исключает событие из проверки (для update-путей), 0 - без исключений
func CommitmentsFromEvents(events []*Event, excludeEventID int64) []Commitment {
	commitments := make([]Commitment, 0, len(events))
	for _, e := range events {
		if e.IsFinished() {
			continue
		}
		if excludeEventID != 0 && e.ID == excludeEventID {
			continue
		}
		commitments = append(commitments, Commitment{
			StartMinutes:    e.StartTime.Minutes(),
			DurationMinutes: e.DurationMinutes,
		})
	}
	return commitments
}

// HasBufferedConflict проверяет конфликт кандидата [startMin, startMin+durMin)
// с существующими занятыми окнами
// Буфер продлевает СУЩЕСТВУЮЩЕЕ окно после его окончания: следующая сессия
// не может начаться раньше чем через bufferMin минут после предыдущей.
// Сессия, заканчивающаяся ровно к началу существующей, допустима
// Интервалы полуоткрытые: соприкасающиеся границы конфликтом не считаются
func HasBufferedConflict(startMin, durMin int, commitments []Commitment, bufferMin int) bool {
	candidateEnd := startMin + durMin

	for _, c := range commitments {
		existEnd := c.StartMinutes + c.DurationMinutes + bufferMin

		if timeslot.Overlaps(startMin, candidateEnd, c.StartMinutes, existEnd) {
			return true
		}
	}

	return false
}
