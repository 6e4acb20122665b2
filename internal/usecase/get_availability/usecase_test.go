package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeo-app/booking-service/internal/domain"
	settingsRepo "github.com/lumeo-app/booking-service/internal/infra/storage/settings"
	"github.com/lumeo-app/booking-service/internal/integrations/providerservice"
	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	bookings []*domain.Booking
	listErr  error
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, _ domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.bookings, nil
}

type fakeEventRepo struct {
	events  []*domain.Event
	listErr error
}

func (f *fakeEventRepo) GetActiveByProviderAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

type fakeSettingsRepo struct{ settings *domain.BookingSettings }

func (f *fakeSettingsRepo) GetByProviderID(_ context.Context, _ int64) (*domain.BookingSettings, error) {
	if f.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

type fakeProviderClient struct {
	provider *providerservice.Provider
	err      error
}

func (f *fakeProviderClient) GetProvider(_ context.Context, _ int64) (*providerservice.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}

type fixture struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	events   *fakeEventRepo
	settings *fakeSettingsRepo
	provider *fakeProviderClient
}

// Понедельник 09:00-12:00, остальные дни закрыты
func newFixture() *fixture {
	f := &fixture{
		bookings: &fakeBookingRepo{},
		events:   &fakeEventRepo{},
		settings: &fakeSettingsRepo{},
		provider: &fakeProviderClient{
			provider: &providerservice.Provider{
				ID:                 7,
				SubscriptionActive: true,
				OpenHours: domain.WeekSchedule{
					Monday: domain.DaySchedule{Available: true, Start: "09:00", End: "12:00"},
				},
			},
		},
	}

	f.uc = NewUseCase(f.bookings, f.events, f.settings, f.provider, nopLogger{})

	return f
}

// 2026-09-07 - понедельник
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func slotTimes(slots []Slot) map[timeslot.TimeString]bool {
	m := make(map[timeslot.TimeString]bool, len(slots))
	for _, s := range slots {
		m[s.StartTime] = s.Available
	}
	return m
}

func TestExecuteOpenDaySlots(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		ProviderID: 7,
		StartDate:  monday,
		EndDate:    monday,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	day := resp.Days[0]
	assert.True(t, day.Available)

	// 09:00-12:00 с часовым шагом и часовым слотом: последний старт в 11:00
	assert.Equal(t, map[timeslot.TimeString]bool{
		"09:00": true,
		"10:00": true,
		"11:00": true,
	}, slotTimes(day.Slots))
}

func TestExecuteBufferMarksTrailingSlotBusy(t *testing.T) {
	f := newFixture()
	f.settings.settings = &domain.BookingSettings{ProviderID: 7, BufferTimeMinutes: 15}
	f.bookings.bookings = []*domain.Booking{
		{SessionDate: monday, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{
		ProviderID: 7,
		StartDate:  monday,
		EndDate:    monday,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	// Буфер продлевает занятый интервал до 11:15: слот после бронирования занят,
	// слот, заканчивающийся ровно к его началу, свободен
	assert.Equal(t, map[timeslot.TimeString]bool{
		"09:00": true,
		"10:00": false,
		"11:00": false,
	}, slotTimes(resp.Days[0].Slots))
	assert.True(t, resp.Days[0].Available)
}

func TestExecuteEventBlocksSlots(t *testing.T) {
	f := newFixture()
	f.settings.settings = &domain.BookingSettings{ProviderID: 7, BufferTimeMinutes: 0}
	f.events.events = []*domain.Event{
		{SessionDate: monday, StartTime: "09:00", DurationMinutes: 60, Status: domain.EventActive},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{
		ProviderID: 7,
		StartDate:  monday,
		EndDate:    monday,
	})
	require.NoError(t, err)

	assert.Equal(t, map[timeslot.TimeString]bool{
		"09:00": false,
		"10:00": true,
		"11:00": true,
	}, slotTimes(resp.Days[0].Slots))
}

func TestExecuteClosedDay(t *testing.T) {
	f := newFixture()
	tuesday := monday.AddDate(0, 0, 1)

	resp, err := f.uc.Execute(context.Background(), &Request{
		ProviderID: 7,
		StartDate:  tuesday,
		EndDate:    tuesday,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	assert.False(t, resp.Days[0].Available)
	assert.Empty(t, resp.Days[0].Slots)
}

func TestExecuteUnknownProviderYieldsUnavailableCalendar(t *testing.T) {
	f := newFixture()
	f.provider.provider = nil
	f.provider.err = providerservice.ErrProviderNotFound

	resp, err := f.uc.Execute(context.Background(), &Request{
		ProviderID: 7,
		StartDate:  monday,
		EndDate:    monday.AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 3)
	for _, day := range resp.Days {
		assert.False(t, day.Available)
		assert.Empty(t, day.Slots)
	}
}

func TestExecuteInactiveProviderYieldsUnavailableCalendar(t *testing.T) {
	f := newFixture()
	f.provider.provider.SubscriptionActive = false

	resp, err := f.uc.Execute(context.Background(), &Request{
		ProviderID: 7,
		StartDate:  monday,
		EndDate:    monday,
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 1)
	assert.False(t, resp.Days[0].Available)
}

func TestExecuteQueryFailureFailsClosed(t *testing.T) {
	t.Run("bookings query fails", func(t *testing.T) {
		f := newFixture()
		f.bookings.listErr = errors.New("connection reset")

		// Занятость не проверить - весь календарь показывается закрытым
		resp, err := f.uc.Execute(context.Background(), &Request{
			ProviderID: 7,
			StartDate:  monday,
			EndDate:    monday.AddDate(0, 0, 1),
		})
		require.NoError(t, err)

		require.Len(t, resp.Days, 2)
		for _, day := range resp.Days {
			assert.False(t, day.Available)
			assert.Empty(t, day.Slots)
		}
	})

	t.Run("events query fails", func(t *testing.T) {
		f := newFixture()
		f.events.listErr = errors.New("connection reset")

		resp, err := f.uc.Execute(context.Background(), &Request{
			ProviderID: 7,
			StartDate:  monday,
			EndDate:    monday,
		})
		require.NoError(t, err)

		require.Len(t, resp.Days, 1)
		assert.False(t, resp.Days[0].Available)
		assert.Empty(t, resp.Days[0].Slots)
	})
}

func TestExecuteValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "non-positive provider id",
			req:     Request{ProviderID: 0, StartDate: monday, EndDate: monday},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing dates",
			req:     Request{ProviderID: 7},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "end before start",
			req:     Request{ProviderID: 7, StartDate: monday, EndDate: monday.AddDate(0, 0, -1)},
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "range over a month",
			req:     Request{ProviderID: 7, StartDate: monday, EndDate: monday.AddDate(0, 0, 31)},
			wantErr: ErrRangeTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
