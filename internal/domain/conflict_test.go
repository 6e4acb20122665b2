package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumeo-app/booking-service/pkg/timeslot"
	"github.com/lumeo-app/booking-service/pkg/ptr"
)

func TestHasBufferedConflict(t *testing.T) {
	// Провайдер открыт 09:00-17:00, буфер 15 минут,
	// существующее бронирование в 10:00 на 60 минут
	existing := []Commitment{
		{StartMinutes: timeslot.TimeString("10:00").Minutes(), DurationMinutes: 60},
	}
	const buffer = 15

	tests := []struct {
		name  string
		start timeslot.TimeString
		dur   int
		want  bool
	}{
		{name: "starting during the booking is rejected", start: "10:55", dur: 60, want: true},
		{name: "trailing buffer fully respected is accepted", start: "11:15", dur: 60, want: false},
		{name: "one minute inside the trailing buffer is rejected", start: "11:14", dur: 60, want: true},
		{name: "day start ending at the booking is accepted", start: "09:00", dur: 60, want: false},
		{name: "exact collision is rejected", start: "10:00", dur: 60, want: true},
		{name: "running into the booking is rejected", start: "09:00", dur: 106, want: true},
		{name: "well before the booking is accepted", start: "08:45", dur: 60, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HasBufferedConflict(tt.start.Minutes(), tt.dur, existing, buffer)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasBufferedConflictZeroBuffer(t *testing.T) {
	existing := []Commitment{{StartMinutes: 600, DurationMinutes: 60}}

	// Без буфера соприкасающиеся интервалы не конфликтуют
	assert.False(t, HasBufferedConflict(660, 60, existing, 0))
	assert.False(t, HasBufferedConflict(540, 60, existing, 0))
	assert.True(t, HasBufferedConflict(659, 60, existing, 0))
}

func TestCommitmentsFromBookings(t *testing.T) {
	bookings := []*Booking{
		{StartTime: "10:00", DurationMinutes: 60, Status: StatusConfirmed},
		{StartTime: "12:00", DurationMinutes: 30, Status: StatusPending},
		{StartTime: "14:00", DurationMinutes: 60, Status: StatusCancelled},
		{StartTime: "15:00", DurationMinutes: 60, Status: StatusCompleted},
	}

	commitments := CommitmentsFromBookings(bookings)

	// Отменённые и завершённые бронирования календарь не блокируют
	assert.Equal(t, []Commitment{
		{StartMinutes: 600, DurationMinutes: 60},
		{StartMinutes: 720, DurationMinutes: 30},
	}, commitments)
}

func TestCommitmentsFromEvents(t *testing.T) {
	events := []*Event{
		{ID: 1, StartTime: "10:00", DurationMinutes: 90, Status: EventActive},
		{ID: 2, StartTime: "13:00", DurationMinutes: 60, Status: EventFull},
		{ID: 3, StartTime: "16:00", DurationMinutes: 60, Status: EventCancelled},
	}

	commitments := CommitmentsFromEvents(events, 0)
	assert.Len(t, commitments, 2)

	// Исключение события - для update-пути самого события
	commitments = CommitmentsFromEvents(events, 2)
	assert.Equal(t, []Commitment{{StartMinutes: 600, DurationMinutes: 90}}, commitments)
}

func TestBookingCanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusRejected, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusRejected, StatusPending, false},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.from}
		assert.Equal(t, tt.want, b.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestDayScheduleCovers(t *testing.T) {
	day := DaySchedule{Available: true, Start: "09:00", End: "17:00"}

	assert.True(t, day.Covers(540, 600))
	assert.True(t, day.Covers(960, 1020))  // 16:00-17:00, конец ровно на закрытии
	assert.False(t, day.Covers(480, 540))  // до открытия
	assert.False(t, day.Covers(990, 1050)) // выходит за закрытие
	assert.False(t, DaySchedule{Available: false}.Covers(600, 660))
}

func TestWeekScheduleValidate(t *testing.T) {
	valid := WeekSchedule{
		Monday: DaySchedule{Available: true, Start: "09:00", End: "17:00"},
		Sunday: DaySchedule{Available: false},
	}
	assert.True(t, valid.Validate())

	inverted := WeekSchedule{
		Monday: DaySchedule{Available: true, Start: "17:00", End: "09:00"},
	}
	assert.False(t, inverted.Validate())

	malformed := WeekSchedule{
		Tuesday: DaySchedule{Available: true, Start: "9:00", End: "17:00"},
	}
	assert.False(t, malformed.Validate())
}

func TestBookingIsEventBooking(t *testing.T) {
	direct := &Booking{SessionType: SessionOneOnOne}
	assert.False(t, direct.IsEventBooking())

	joined := &Booking{SessionType: SessionOneToMany, EventID: ptr.Ptr(int64(7))}
	assert.True(t, joined.IsEventBooking())
}
