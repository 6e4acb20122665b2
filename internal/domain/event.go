package domain

import (
	"time"

	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

// EventStatus represents the status of a group event
type EventStatus string

const (
	EventActive    EventStatus = "active"
	EventFull      EventStatus = "full"
	EventCancelled EventStatus = "cancelled"
	EventCompleted EventStatus = "completed"
)

// Event represents a group-session offering created by a provider
type Event struct {
	ID          int64
	ProviderID  int64
	Title       string
	Description string

	SessionDate     time.Time
	StartTime       timeslot.TimeString
	DurationMinutes int

	MaxParticipants     int
	CurrentParticipants int
	PricePerPerson      float64

	Status             EventStatus
	LiveStreamRoomName string
	LiveStreamStatus   LiveStreamStatus

	IsPublic bool
	Tags     []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsJoinable returns true when the event accepts new participants
func (e *Event) IsJoinable() bool {
	return e.Status == EventActive && e.CurrentParticipants < e.MaxParticipants
}

// IsFinished returns true when the event reached a final state
func (e *Event) IsFinished() bool {
	return e.Status == EventCancelled || e.Status == EventCompleted
}

// EndMinutes returns the end of the event as minutes from midnight
func (e *Event) EndMinutes() int {
	return e.StartTime.Minutes() + e.DurationMinutes
}

// EndsBefore reports whether the event is already over at the given moment
func (e *Event) EndsBefore(now time.Time) bool {
	y, m, d := e.SessionDate.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, e.SessionDate.Location()).
		Add(time.Duration(e.EndMinutes()) * time.Minute)
	return end.Before(now)
}

// ApplyParticipantsDelta единственная точка изменения счётчика участников
// Инвариант: 0 <= CurrentParticipants <= MaxParticipants, статус выводится из счётчика
// Возвращает фактически применённую дельту (после клампинга)
func (e *Event) ApplyParticipantsDelta(delta int) int {
	next := e.CurrentParticipants + delta
	if next < 0 {
		next = 0
	}
	if next > e.MaxParticipants {
		next = e.MaxParticipants
	}

	applied := next - e.CurrentParticipants
	e.CurrentParticipants = next

	// Статус active/full выводится из счётчика, терминальные статусы не перезаписываются
	switch e.Status {
	case EventActive:
		if e.CurrentParticipants == e.MaxParticipants {
			e.Status = EventFull
		}
	case EventFull:
		if e.CurrentParticipants < e.MaxParticipants {
			e.Status = EventActive
		}
	}

	return applied
}
