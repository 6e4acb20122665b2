package create_booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeo-app/booking-service/internal/domain"
	settingsRepo "github.com/lumeo-app/booking-service/internal/infra/storage/settings"
	"github.com/lumeo-app/booking-service/internal/infra/slotlock"
	"github.com/lumeo-app/booking-service/internal/integrations/notifyservice"
	"github.com/lumeo-app/booking-service/internal/integrations/providerservice"
	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeBookingRepo struct {
	existing []*domain.Booking
	listErr  error
	created  *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	b.ID = 42
	f.created = b
	return b, nil
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, _ domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.existing, nil
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

type fakeNotifyClient struct{ sent []notifyservice.Notification }

func (f *fakeNotifyClient) SendAsync(n notifyservice.Notification) {
	f.sent = append(f.sent, n)
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type passthroughSlotLocker struct{}

func (passthroughSlotLocker) WithSlotLock(ctx context.Context, _ int64, _ time.Time, _ timeslot.TimeString, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type busySlotLocker struct{}

func (busySlotLocker) WithSlotLock(context.Context, int64, time.Time, timeslot.TimeString, func(ctx context.Context) error) error {
	return slotlock.ErrLockNotAcquired
}

func workingWeek(start, end timeslot.TimeString) domain.WeekSchedule {
	day := domain.DaySchedule{Available: true, Start: start, End: end}
	return domain.WeekSchedule{
		Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
		Friday: day, Saturday: day, Sunday: day,
	}
}

type fixture struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	events   *fakeEventRepo
	settings *fakeSettingsRepo
	provider *fakeProviderClient
	notify   *fakeNotifyClient
}

func newFixture() *fixture {
	f := &fixture{
		bookings: &fakeBookingRepo{},
		events:   &fakeEventRepo{},
		settings: &fakeSettingsRepo{},
		provider: &fakeProviderClient{
			provider: &providerservice.Provider{
				ID:                 7,
				DisplayName:        "Anna",
				SubscriptionActive: true,
				OpenHours:          workingWeek("09:00", "17:00"),
			},
		},
		notify: &fakeNotifyClient{},
	}

	f.uc = NewUseCase(
		f.bookings, f.events, f.settings, f.provider, f.notify,
		passthroughTxManager{}, passthroughSlotLocker{}, nopLogger{},
	)
	f.uc.timeProvider = fixedClock{t: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}

	return f
}

func validRequest() *Request {
	return &Request{
		ClientID:    3,
		ProviderID:  7,
		Date:        time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		TotalAmount: 50,
	}
}

func TestExecuteAutomaticConfirmation(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Без настроек провайдера действует автоподтверждение и длительность по умолчанию
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, domain.DefaultSessionDurationMinutes, resp.DurationMinutes)
	assert.Equal(t, string(domain.SessionOneOnOne), resp.SessionType)
	assert.True(t, strings.HasPrefix(resp.LiveStreamRoomName, "room-"))

	// Уведомления уходят обеим сторонам
	require.Len(t, f.notify.sent, 2)
	assert.Equal(t, notifyservice.KindBookingCreated, f.notify.sent[0].Kind)
	assert.Equal(t, int64(7), f.notify.sent[0].RecipientID)
	assert.Equal(t, notifyservice.KindBookingCreated, f.notify.sent[1].Kind)
	assert.Equal(t, int64(3), f.notify.sent[1].RecipientID)
}

func TestExecuteManualConfirmationCreatesPending(t *testing.T) {
	f := newFixture()
	f.settings.settings = &domain.BookingSettings{
		ProviderID:        7,
		ConfirmationType:  domain.ConfirmationManual,
		BufferTimeMinutes: 15,
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)

	// Провайдер получает запрос на подтверждение, а не факт создания
	require.Len(t, f.notify.sent, 2)
	assert.Equal(t, notifyservice.KindBookingRequested, f.notify.sent[0].Kind)
}

func TestExecuteBufferConflict(t *testing.T) {
	f := newFixture()
	f.settings.settings = &domain.BookingSettings{
		ProviderID:        7,
		ConfirmationType:  domain.ConfirmationAutomatic,
		BufferTimeMinutes: 15,
	}
	f.bookings.existing = []*domain.Booking{
		{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	// Существующее 10:00-11:00 с буфером 15 минут перекрывает старт в 11:00
	req := validRequest()
	req.StartTime = "11:00"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Nil(t, f.bookings.created)
}

func TestExecuteEventOccupiesSlot(t *testing.T) {
	f := newFixture()
	f.events.events = []*domain.Event{
		{StartTime: "14:00", DurationMinutes: 60, Status: domain.EventActive},
	}

	req := validRequest()
	req.StartTime = "14:00"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecuteValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{
			name:    "self booking",
			mutate:  func(req *Request) { req.ClientID = req.ProviderID },
			wantErr: ErrSelfBooking,
		},
		{
			name:    "date in the past",
			mutate:  func(req *Request) { req.Date = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "malformed start time",
			mutate:  func(req *Request) { req.StartTime = "25:99" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative duration",
			mutate:  func(req *Request) { req.DurationMinutes = -30 },
			wantErr: ErrInvalidInput,
		},
		{
			name: "session crosses midnight",
			mutate: func(req *Request) {
				req.StartTime = "23:30"
				req.DurationMinutes = 60
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecuteProviderChecks(t *testing.T) {
	t.Run("provider not found", func(t *testing.T) {
		f := newFixture()
		f.provider.provider = nil
		f.provider.err = providerservice.ErrProviderNotFound

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("subscription inactive", func(t *testing.T) {
		f := newFixture()
		f.provider.provider.SubscriptionActive = false

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrProviderInactive)
	})

	t.Run("closed day", func(t *testing.T) {
		f := newFixture()
		f.provider.provider.OpenHours = domain.WeekSchedule{}

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrProviderClosed)
	})

	t.Run("outside working hours", func(t *testing.T) {
		f := newFixture()
		req := validRequest()
		req.StartTime = "16:30"

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})
}

func TestExecuteConflictCheckFailureFailsClosed(t *testing.T) {
	t.Run("bookings query fails", func(t *testing.T) {
		f := newFixture()
		f.bookings.listErr = errors.New("connection reset")

		// Занятость не проверить - слот считается занятым, а не внутренней ошибкой
		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotConflict)
		assert.Nil(t, f.bookings.created)
	})

	t.Run("events query fails", func(t *testing.T) {
		f := newFixture()
		f.events.listErr = errors.New("connection reset")

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotConflict)
		assert.Nil(t, f.bookings.created)
	})
}

func TestExecuteSlotLockBusy(t *testing.T) {
	f := newFixture()
	f.uc.slotLocker = busySlotLocker{}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotBusy)
	assert.Empty(t, f.notify.sent)
}
