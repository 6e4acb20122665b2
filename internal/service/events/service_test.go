package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeo-app/booking-service/internal/domain"
	eventRepo "github.com/lumeo-app/booking-service/internal/infra/storage/event"
	settingsRepo "github.com/lumeo-app/booking-service/internal/infra/storage/settings"
	"github.com/lumeo-app/booking-service/internal/integrations/notifyservice"
	"github.com/lumeo-app/booking-service/internal/integrations/providerservice"
	"github.com/lumeo-app/booking-service/internal/service/events/models"
	"github.com/lumeo-app/booking-service/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeEventRepo struct {
	event    *domain.Event
	existing []*domain.Event
	listErr  error

	created       *domain.Event
	updatedStatus *domain.EventStatus
	deleted       bool
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) (*domain.Event, error) {
	e.ID = 5
	f.created = e
	return e, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, _ int64) (*domain.Event, error) {
	if f.event == nil {
		return nil, eventRepo.ErrEventNotFound
	}
	return f.event, nil
}

func (f *fakeEventRepo) GetActiveByProviderAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.existing, nil
}

func (f *fakeEventRepo) GetByProviderID(_ context.Context, _ int64, _ bool) ([]*domain.Event, error) {
	return f.existing, nil
}

func (f *fakeEventRepo) UpdateStatus(_ context.Context, _ int64, status domain.EventStatus) error {
	f.updatedStatus = &status
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, _ int64) error {
	f.deleted = true
	return nil
}

type fakeBookingRepo struct {
	byDate  []*domain.Booking
	byEvent []*domain.Booking
	listErr error

	cancelledIDs      []int64
	deletedByEventIDs []int64
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, _ domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byDate, nil
}

func (f *fakeBookingRepo) GetByEventID(_ context.Context, _ int64, onlyActive bool) ([]*domain.Booking, error) {
	if !onlyActive {
		return f.byEvent, nil
	}
	active := make([]*domain.Booking, 0, len(f.byEvent))
	for _, b := range f.byEvent {
		if b.IsActive() {
			active = append(active, b)
		}
	}
	return active, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, _ string) error {
	f.cancelledIDs = append(f.cancelledIDs, id)
	return nil
}

func (f *fakeBookingRepo) DeleteNonConfirmedByEventID(_ context.Context, eventID int64) error {
	f.deletedByEventIDs = append(f.deletedByEventIDs, eventID)
	return nil
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

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc      *Service
	events   *fakeEventRepo
	bookings *fakeBookingRepo
	settings *fakeSettingsRepo
	provider *fakeProviderClient
	notify   *fakeNotifyClient
}

func newFixture() *fixture {
	day := domain.DaySchedule{Available: true, Start: "09:00", End: "21:00"}
	f := &fixture{
		events:   &fakeEventRepo{},
		bookings: &fakeBookingRepo{},
		settings: &fakeSettingsRepo{},
		provider: &fakeProviderClient{
			provider: &providerservice.Provider{
				ID:                 7,
				SubscriptionActive: true,
				OpenHours: domain.WeekSchedule{
					Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
					Friday: day, Saturday: day, Sunday: day,
				},
			},
		},
		notify: &fakeNotifyClient{},
	}

	f.svc = NewService(
		f.events, f.bookings, f.settings, f.provider, f.notify,
		passthroughTxManager{},
		fixedClock{t: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)},
		nopLogger{},
	)

	return f
}

func validCreateRequest() *models.CreateEventRequest {
	return &models.CreateEventRequest{
		ProviderID:      7,
		Title:           "Вечерний стрим",
		SessionDate:     "2026-09-02",
		StartTime:       "18:00",
		DurationMinutes: 90,
		MaxParticipants: 10,
		PricePerPerson:  25,
		IsPublic:        true,
	}
}

func TestCreateEvent(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, string(domain.EventActive), resp.Status)
	assert.Equal(t, 0, resp.CurrentParticipants)
	assert.True(t, strings.HasPrefix(resp.LiveStreamRoomName, "room-"))

	require.NotNil(t, f.events.created)
	assert.Equal(t, "18:00", f.events.created.StartTime.String())
}

func TestCreateEventTimeConflict(t *testing.T) {
	f := newFixture()
	f.settings.settings = &domain.BookingSettings{ProviderID: 7, BufferTimeMinutes: 15}

	// Существующее бронирование 17:00-18:00 с буфером перекрывает старт в 18:00
	f.bookings.byDate = []*domain.Booking{
		{StartTime: "17:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	_, err := f.svc.Create(context.Background(), validCreateRequest())
	assert.ErrorIs(t, err, ErrTimeConflict)
	assert.Nil(t, f.events.created)
}

func TestCreateEventConflictsWithOtherEvent(t *testing.T) {
	f := newFixture()
	f.events.existing = []*domain.Event{
		{StartTime: "18:30", DurationMinutes: 60, Status: domain.EventActive},
	}

	_, err := f.svc.Create(context.Background(), validCreateRequest())
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestCreateEventConflictCheckFailureFailsClosed(t *testing.T) {
	t.Run("bookings query fails", func(t *testing.T) {
		f := newFixture()
		f.bookings.listErr = errors.New("connection reset")

		// Занятость не проверить - слот считается занятым
		_, err := f.svc.Create(context.Background(), validCreateRequest())
		assert.ErrorIs(t, err, ErrTimeConflict)
		assert.Nil(t, f.events.created)
	})

	t.Run("events query fails", func(t *testing.T) {
		f := newFixture()
		f.events.listErr = errors.New("connection reset")

		_, err := f.svc.Create(context.Background(), validCreateRequest())
		assert.ErrorIs(t, err, ErrTimeConflict)
		assert.Nil(t, f.events.created)
	})
}

func TestCreateEventValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *models.CreateEventRequest)
		wantErr error
	}{
		{
			name:    "missing title",
			mutate:  func(req *models.CreateEventRequest) { req.Title = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "too few participants",
			mutate:  func(req *models.CreateEventRequest) { req.MaxParticipants = 1 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative price",
			mutate:  func(req *models.CreateEventRequest) { req.PricePerPerson = -1 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero duration",
			mutate:  func(req *models.CreateEventRequest) { req.DurationMinutes = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed date",
			mutate:  func(req *models.CreateEventRequest) { req.SessionDate = "02.09.2026" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed time",
			mutate:  func(req *models.CreateEventRequest) { req.StartTime = "6pm" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "date in the past",
			mutate:  func(req *models.CreateEventRequest) { req.SessionDate = "2026-08-31" },
			wantErr: ErrInvalidInput,
		},
		{
			name: "event crosses midnight",
			mutate: func(req *models.CreateEventRequest) {
				req.StartTime = "23:00"
				req.DurationMinutes = 120
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validCreateRequest()
			tt.mutate(req)

			_, err := f.svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateEventProviderChecks(t *testing.T) {
	t.Run("provider not found", func(t *testing.T) {
		f := newFixture()
		f.provider.provider = nil
		f.provider.err = providerservice.ErrProviderNotFound

		_, err := f.svc.Create(context.Background(), validCreateRequest())
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("subscription inactive", func(t *testing.T) {
		f := newFixture()
		f.provider.provider.SubscriptionActive = false

		_, err := f.svc.Create(context.Background(), validCreateRequest())
		assert.ErrorIs(t, err, ErrProviderInactive)
	})

	t.Run("outside working hours", func(t *testing.T) {
		f := newFixture()
		req := validCreateRequest()
		req.StartTime = "20:00"

		_, err := f.svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	})
}

func TestCancelEventCascade(t *testing.T) {
	f := newFixture()
	f.events.event = &domain.Event{
		ID:         5,
		ProviderID: 7,
		Title:      "Вечерний стрим",
		Status:     domain.EventActive,
	}
	f.bookings.byEvent = []*domain.Booking{
		{ID: 11, ClientID: 3, EventID: ptr.Ptr(int64(5)), Status: domain.StatusConfirmed},
		{ID: 12, ClientID: 4, EventID: ptr.Ptr(int64(5)), Status: domain.StatusPending},
		{ID: 13, ClientID: 6, EventID: ptr.Ptr(int64(5)), Status: domain.StatusCancelled},
	}

	err := f.svc.Cancel(context.Background(), 5, &models.CancelEventRequest{ProviderID: 7, Reason: "болезнь"})
	require.NoError(t, err)

	require.NotNil(t, f.events.updatedStatus)
	assert.Equal(t, domain.EventCancelled, *f.events.updatedStatus)

	// Отменяются только активные бронирования, каждый участник уведомляется
	assert.Equal(t, []int64{11, 12}, f.bookings.cancelledIDs)
	require.Len(t, f.notify.sent, 2)
	for _, n := range f.notify.sent {
		assert.Equal(t, notifyservice.KindEventCancelled, n.Kind)
		assert.Equal(t, "болезнь", n.Payload["reason"])
	}
}

func TestCancelEventRejections(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		err := f.svc.Cancel(context.Background(), 5, &models.CancelEventRequest{ProviderID: 7})
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("foreign event", func(t *testing.T) {
		f := newFixture()
		f.events.event = &domain.Event{ID: 5, ProviderID: 7, Status: domain.EventActive}

		err := f.svc.Cancel(context.Background(), 5, &models.CancelEventRequest{ProviderID: 999})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("already completed", func(t *testing.T) {
		f := newFixture()
		f.events.event = &domain.Event{ID: 5, ProviderID: 7, Status: domain.EventCompleted}

		err := f.svc.Cancel(context.Background(), 5, &models.CancelEventRequest{ProviderID: 7})
		assert.ErrorIs(t, err, ErrEventFinished)
	})
}

func TestDeleteEvent(t *testing.T) {
	t.Run("deletes event with non-confirmed bookings", func(t *testing.T) {
		f := newFixture()
		f.events.event = &domain.Event{ID: 5, ProviderID: 7, Status: domain.EventActive}
		f.bookings.byEvent = []*domain.Booking{
			{ID: 11, EventID: ptr.Ptr(int64(5)), Status: domain.StatusPending},
		}

		err := f.svc.Delete(context.Background(), 5, 7)
		require.NoError(t, err)

		assert.Equal(t, []int64{5}, f.bookings.deletedByEventIDs)
		assert.True(t, f.events.deleted)
	})

	t.Run("confirmed booking blocks deletion", func(t *testing.T) {
		f := newFixture()
		f.events.event = &domain.Event{ID: 5, ProviderID: 7, Status: domain.EventActive}
		f.bookings.byEvent = []*domain.Booking{
			{ID: 11, EventID: ptr.Ptr(int64(5)), Status: domain.StatusConfirmed},
		}

		err := f.svc.Delete(context.Background(), 5, 7)
		assert.ErrorIs(t, err, ErrHasConfirmedBookings)
		assert.False(t, f.events.deleted)
	})

	t.Run("foreign event", func(t *testing.T) {
		f := newFixture()
		f.events.event = &domain.Event{ID: 5, ProviderID: 7, Status: domain.EventActive}

		err := f.svc.Delete(context.Background(), 5, 999)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
