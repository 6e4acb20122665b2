package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeo-app/booking-service/internal/domain"
	bookingRepo "github.com/lumeo-app/booking-service/internal/infra/storage/booking"
	"github.com/lumeo-app/booking-service/internal/integrations/notifyservice"
	"github.com/lumeo-app/booking-service/internal/service/bookings/models"
	"github.com/lumeo-app/booking-service/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	booking *domain.Booking

	updatedStatus    *domain.BookingStatus
	cancelledReason  *string
	streamStatus     *domain.LiveStreamStatus
	completedSession bool
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.booking == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) GetByClientID(_ context.Context, _ int64, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	if f.booking == nil {
		return []*domain.Booking{}, nil
	}
	return []*domain.Booking{f.booking}, nil
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, _ domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	if f.booking == nil {
		return []*domain.Booking{}, nil
	}
	return []*domain.Booking{f.booking}, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus) error {
	f.updatedStatus = &status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, _ int64, reason string) error {
	f.cancelledReason = &reason
	return nil
}

func (f *fakeBookingRepo) SetLiveStreamStatus(_ context.Context, _ int64, status domain.LiveStreamStatus) error {
	f.streamStatus = &status
	return nil
}

func (f *fakeBookingRepo) CompleteSession(_ context.Context, _ int64) error {
	f.completedSession = true
	return nil
}

type fakeEventRepo struct {
	appliedDeltas []int
	streamStatus  *domain.LiveStreamStatus
}

func (f *fakeEventRepo) AdjustParticipants(_ context.Context, eventID int64, delta int) (*domain.Event, error) {
	f.appliedDeltas = append(f.appliedDeltas, delta)
	return &domain.Event{ID: eventID}, nil
}

func (f *fakeEventRepo) SetLiveStreamStatus(_ context.Context, _ int64, status domain.LiveStreamStatus) error {
	f.streamStatus = &status
	return nil
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
	bookings *fakeBookingRepo
	events   *fakeEventRepo
	notify   *fakeNotifyClient
}

func newFixture(booking *domain.Booking) *fixture {
	f := &fixture{
		bookings: &fakeBookingRepo{booking: booking},
		events:   &fakeEventRepo{},
		notify:   &fakeNotifyClient{},
	}
	f.svc = NewService(f.bookings, f.events, f.notify, passthroughTxManager{}, nopLogger{})
	return f
}

func oneOnOneBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              1,
		ProviderID:      7,
		ClientID:        3,
		SessionDate:     time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          status,
		SessionType:     domain.SessionOneOnOne,
	}
}

func eventBooking(status domain.BookingStatus) *domain.Booking {
	b := oneOnOneBooking(status)
	b.EventID = ptr.Ptr(int64(5))
	b.SessionType = domain.SessionOneToMany
	return b
}

func TestGetByIDAccess(t *testing.T) {
	f := newFixture(oneOnOneBooking(domain.StatusConfirmed))

	// Клиент и провайдер видят бронирование
	for _, userID := range []int64{3, 7} {
		resp, err := f.svc.GetByID(context.Background(), 1, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
	}

	// Посторонний - нет
	_, err := f.svc.GetByID(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancelByClient(t *testing.T) {
	f := newFixture(oneOnOneBooking(domain.StatusConfirmed))

	err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID:             3,
		CancellationReason: "не смогу прийти",
	})
	require.NoError(t, err)

	require.NotNil(t, f.bookings.cancelledReason)
	assert.Equal(t, "не смогу прийти", *f.bookings.cancelledReason)

	// Уведомляется вторая сторона
	require.Len(t, f.notify.sent, 1)
	assert.Equal(t, notifyservice.KindBookingCancelled, f.notify.sent[0].Kind)
	assert.Equal(t, int64(7), f.notify.sent[0].RecipientID)
}

func TestCancelConfirmedEventBookingReleasesSeat(t *testing.T) {
	f := newFixture(eventBooking(domain.StatusConfirmed))

	err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 3})
	require.NoError(t, err)

	assert.Equal(t, []int{-1}, f.events.appliedDeltas)
}

func TestCancelPendingEventBookingKeepsSeats(t *testing.T) {
	f := newFixture(eventBooking(domain.StatusPending))

	err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 3})
	require.NoError(t, err)

	// Pending место не занимал, счётчик не трогаем
	assert.Empty(t, f.events.appliedDeltas)
}

func TestCancelRejections(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture(nil)
		err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 3})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("stranger", func(t *testing.T) {
		f := newFixture(oneOnOneBooking(domain.StatusConfirmed))
		err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 999})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("already completed", func(t *testing.T) {
		f := newFixture(oneOnOneBooking(domain.StatusCompleted))
		err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 3})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})
}

func TestUpdateStatusApprovalTakesEventSeat(t *testing.T) {
	f := newFixture(eventBooking(domain.StatusPending))

	err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ProviderID: 7,
		Status:     "confirmed",
	})
	require.NoError(t, err)

	require.NotNil(t, f.bookings.updatedStatus)
	assert.Equal(t, domain.StatusConfirmed, *f.bookings.updatedStatus)
	assert.Equal(t, []int{1}, f.events.appliedDeltas)

	// Клиент узнаёт об одобрении
	require.Len(t, f.notify.sent, 1)
	assert.Equal(t, notifyservice.KindBookingApproved, f.notify.sent[0].Kind)
	assert.Equal(t, int64(3), f.notify.sent[0].RecipientID)
}

func TestUpdateStatusRejectionOfPendingHoldsNoSeat(t *testing.T) {
	f := newFixture(eventBooking(domain.StatusPending))

	err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ProviderID: 7,
		Status:     "rejected",
	})
	require.NoError(t, err)

	assert.Empty(t, f.events.appliedDeltas)

	require.Len(t, f.notify.sent, 1)
	assert.Equal(t, notifyservice.KindBookingRejected, f.notify.sent[0].Kind)
}

func TestUpdateStatusCancellingConfirmedReleasesSeat(t *testing.T) {
	f := newFixture(eventBooking(domain.StatusConfirmed))

	err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ProviderID: 7,
		Status:     "cancelled",
	})
	require.NoError(t, err)

	// Отмена через статус проставляет cancelled_at так же, как эндпоинт отмены
	require.NotNil(t, f.bookings.cancelledReason)
	assert.Equal(t, []int{-1}, f.events.appliedDeltas)
}

func TestUpdateStatusSessionDetailsReachClient(t *testing.T) {
	f := newFixture(oneOnOneBooking(domain.StatusPending))

	err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ProviderID:     7,
		Status:         "confirmed",
		SessionDetails: map[string]string{"meetingLink": "https://example.com/room"},
	})
	require.NoError(t, err)

	require.Len(t, f.notify.sent, 1)
	assert.Equal(t, "https://example.com/room", f.notify.sent[0].Payload["meetingLink"])
}

func TestUpdateStatusRejections(t *testing.T) {
	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(oneOnOneBooking(domain.StatusPending))
		err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{ProviderID: 7, Status: "archived"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("not the provider", func(t *testing.T) {
		f := newFixture(oneOnOneBooking(domain.StatusPending))
		err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{ProviderID: 3, Status: "confirmed"})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("terminal state is frozen", func(t *testing.T) {
		f := newFixture(oneOnOneBooking(domain.StatusCancelled))
		err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{ProviderID: 7, Status: "confirmed"})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("pending cannot complete", func(t *testing.T) {
		f := newFixture(oneOnOneBooking(domain.StatusPending))
		err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{ProviderID: 7, Status: "completed"})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestStartSession(t *testing.T) {
	t.Run("confirmed session goes live", func(t *testing.T) {
		f := newFixture(oneOnOneBooking(domain.StatusConfirmed))

		err := f.svc.StartSession(context.Background(), 1, 7)
		require.NoError(t, err)

		require.NotNil(t, f.bookings.streamStatus)
		assert.Equal(t, domain.LiveStreamLive, *f.bookings.streamStatus)

		require.Len(t, f.notify.sent, 1)
		assert.Equal(t, notifyservice.KindSessionStarted, f.notify.sent[0].Kind)
	})

	t.Run("event session propagates to the event", func(t *testing.T) {
		f := newFixture(eventBooking(domain.StatusConfirmed))

		err := f.svc.StartSession(context.Background(), 1, 7)
		require.NoError(t, err)

		require.NotNil(t, f.events.streamStatus)
		assert.Equal(t, domain.LiveStreamLive, *f.events.streamStatus)
	})

	t.Run("pending session is not startable", func(t *testing.T) {
		f := newFixture(oneOnOneBooking(domain.StatusPending))
		err := f.svc.StartSession(context.Background(), 1, 7)
		assert.ErrorIs(t, err, ErrSessionNotStartable)
	})

	t.Run("already live", func(t *testing.T) {
		b := oneOnOneBooking(domain.StatusConfirmed)
		b.LiveStreamStatus = domain.LiveStreamLive
		f := newFixture(b)

		err := f.svc.StartSession(context.Background(), 1, 7)
		assert.ErrorIs(t, err, ErrSessionNotStartable)
	})
}

func TestStopSession(t *testing.T) {
	t.Run("live session completes", func(t *testing.T) {
		b := oneOnOneBooking(domain.StatusConfirmed)
		b.LiveStreamStatus = domain.LiveStreamLive
		f := newFixture(b)

		err := f.svc.StopSession(context.Background(), 1, 7)
		require.NoError(t, err)
		assert.True(t, f.bookings.completedSession)
	})

	t.Run("not live", func(t *testing.T) {
		f := newFixture(oneOnOneBooking(domain.StatusConfirmed))
		err := f.svc.StopSession(context.Background(), 1, 7)
		assert.ErrorIs(t, err, ErrSessionNotLive)
	})
}
