package sweeps

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeo-app/booking-service/internal/domain"
	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeBookingRepo struct {
	expired    []*domain.Booking
	candidates []*domain.Booking

	completeErrs map[int64]error
	completedIDs []int64

	flaggedIDs []int64

	gotDate     time.Time
	gotMaxStart timeslot.TimeString
}

func (f *fakeBookingRepo) ListExpiredConfirmed(_ context.Context, _ time.Time) ([]*domain.Booking, error) {
	return f.expired, nil
}

func (f *fakeBookingRepo) CompleteSession(_ context.Context, id int64) error {
	if err := f.completeErrs[id]; err != nil {
		return err
	}
	f.completedIDs = append(f.completedIDs, id)
	return nil
}

func (f *fakeBookingRepo) ListReadyCandidates(_ context.Context, date time.Time, maxStart timeslot.TimeString) ([]*domain.Booking, error) {
	f.gotDate = date
	f.gotMaxStart = maxStart
	return f.candidates, nil
}

func (f *fakeBookingRepo) SetReadyToStart(_ context.Context, id int64) error {
	f.flaggedIDs = append(f.flaggedIDs, id)
	return nil
}

type fakeEventRepo struct {
	expired      []*domain.Event
	completedIDs []int64
}

func (f *fakeEventRepo) ListExpiredActive(_ context.Context, _ time.Time) ([]*domain.Event, error) {
	return f.expired, nil
}

func (f *fakeEventRepo) Complete(_ context.Context, id int64) error {
	f.completedIDs = append(f.completedIDs, id)
	return nil
}

func newService(now time.Time, bookings *fakeBookingRepo, events *fakeEventRepo) *Service {
	return NewService(bookings, events, fixedClock{t: now}, nopLogger{})
}

func TestAutoCompleteFinished(t *testing.T) {
	bookings := &fakeBookingRepo{
		expired: []*domain.Booking{{ID: 1}, {ID: 2}},
	}
	events := &fakeEventRepo{
		expired: []*domain.Event{{ID: 5}},
	}
	svc := newService(time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC), bookings, events)

	err := svc.AutoCompleteFinished(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, bookings.completedIDs)
	assert.Equal(t, []int64{5}, events.completedIDs)
}

func TestAutoCompleteFinishedSkipsFailedItems(t *testing.T) {
	bookings := &fakeBookingRepo{
		expired:      []*domain.Booking{{ID: 1}, {ID: 2}, {ID: 3}},
		completeErrs: map[int64]error{2: errors.New("deadlock")},
	}
	svc := newService(time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC), bookings, &fakeEventRepo{})

	// Сбой на одной записи не прерывает проход
	err := svc.AutoCompleteFinished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, bookings.completedIDs)
}

func TestFlagImminent(t *testing.T) {
	bookings := &fakeBookingRepo{
		candidates: []*domain.Booking{{ID: 1}, {ID: 2}},
	}
	now := time.Date(2026, 9, 1, 9, 50, 0, 0, time.UTC)
	svc := newService(now, bookings, &fakeEventRepo{})

	err := svc.FlagImminent(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, bookings.flaggedIDs)

	// Репозиторий получает дату без времени и правую границу окна
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), bookings.gotDate)
	assert.Equal(t, timeslot.TimeString("10:05"), bookings.gotMaxStart)
}

func TestFlagImminentWindowStopsAtMidnight(t *testing.T) {
	bookings := &fakeBookingRepo{}
	now := time.Date(2026, 9, 1, 23, 55, 0, 0, time.UTC)
	svc := newService(now, bookings, &fakeEventRepo{})

	err := svc.FlagImminent(context.Background())
	require.NoError(t, err)

	// Окно обрезается концом суток, хвост доберёт следующий запуск
	assert.Equal(t, timeslot.TimeString("23:59"), bookings.gotMaxStart)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), bookings.gotDate)
}

func TestFlagImminentIdempotent(t *testing.T) {
	bookings := &fakeBookingRepo{
		candidates: []*domain.Booking{{ID: 1}},
	}
	svc := newService(time.Date(2026, 9, 1, 9, 50, 0, 0, time.UTC), bookings, &fakeEventRepo{})

	require.NoError(t, svc.FlagImminent(context.Background()))

	// Повторный проход видит пустой список кандидатов и ничего не меняет
	bookings.candidates = nil
	require.NoError(t, svc.FlagImminent(context.Background()))

	assert.Equal(t, []int64{1}, bookings.flaggedIDs)
}
