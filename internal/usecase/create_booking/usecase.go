package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lumeo-app/booking-service/internal/domain"
	settingsRepo "github.com/lumeo-app/booking-service/internal/infra/storage/settings"
	"github.com/lumeo-app/booking-service/internal/infra/slotlock"
	"github.com/lumeo-app/booking-service/internal/integrations/notifyservice"
	providerClient "github.com/lumeo-app/booking-service/internal/integrations/providerservice"
)

// UseCase use case для создания бронирования 1:1 сессии
type UseCase struct {
	bookingRepo    BookingRepository
	eventRepo      EventRepository
	settingsRepo   SettingsRepository
	providerClient ProviderServiceClient
	notifyClient   NotifyServiceClient
	txManager      TransactionManager
	slotLocker     SlotLocker
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	eventRepo EventRepository,
	settingsRepo SettingsRepository,
	providerClient ProviderServiceClient,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	slotLocker SlotLocker,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		settingsRepo:   settingsRepo,
		providerClient: providerClient,
		notifyClient:   notifyClient,
		txManager:      txManager,
		slotLocker:     slotLocker,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
// Слот защищён двумя уровнями: Redis-лок на слот отсекает конкурентов до БД,
// сериализуемая транзакция с блокировкой строк закрывает гонку окончательно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, provider=%d, date=%s, time=%s",
		req.ClientID, req.ProviderID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date in the past: %s", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 2. Получаем провайдера и проверяем подписку
	provider, err := uc.providerClient.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			uc.logger.Warn("CreateBooking: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("CreateBooking: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	if !provider.SubscriptionActive {
		uc.logger.Warn("CreateBooking: provider id=%d subscription is not active", req.ProviderID)
		return nil, ErrProviderInactive
	}

	// 3. Настройки провайдера, при отсутствии записи - значения по умолчанию
	settings, err := uc.settingsRepo.GetByProviderID(ctx, req.ProviderID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("CreateBooking: failed to get settings for provider id=%d: %v", req.ProviderID, err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultBookingSettings(req.ProviderID)
		uc.logger.Info("CreateBooking: using default settings for provider=%d", req.ProviderID)
	}

	durationMinutes := req.DurationMinutes
	if durationMinutes == 0 {
		durationMinutes = domain.DefaultSessionDurationMinutes
	}

	if err := validateSlotFits(req.StartTime, durationMinutes); err != nil {
		uc.logger.Warn("CreateBooking: slot does not fit into day: %s+%d min", req.StartTime, durationMinutes)
		return nil, err
	}

	// 4. Рабочие часы провайдера на указанную дату
	daySchedule := provider.OpenHours.ForDate(req.Date)
	if !daySchedule.Available {
		uc.logger.Warn("CreateBooking: provider id=%d is closed on %s", req.ProviderID, req.Date.Format(domain.DateFormat))
		return nil, ErrProviderClosed
	}

	startMin := req.StartTime.Minutes()
	if !daySchedule.Covers(startMin, startMin+durationMinutes) {
		uc.logger.Warn("CreateBooking: slot %s+%d min outside working hours for provider id=%d",
			req.StartTime, durationMinutes, req.ProviderID)
		return nil, ErrOutsideWorkingHours
	}

	var result *domain.Booking

	// 5. Лок слота + сериализуемая транзакция
	err = uc.slotLocker.WithSlotLock(ctx, req.ProviderID, req.Date, req.StartTime, func(ctx context.Context) error {
		return uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			// 5.1. Активные бронирования на дату с блокировкой строк (FOR UPDATE)
			bookings, err := uc.bookingRepo.GetByProviderWithFilter(txCtx, domain.ProviderBookingsFilter{
				ProviderID: req.ProviderID,
				StartDate:  &req.Date,
				EndDate:    &req.Date,
			})
			if err != nil {
				// Не смогли проверить занятость — слот считается занятым
				uc.logger.Error("CreateBooking: failed to get bookings, treating slot as taken: %v", err)
				return ErrSlotConflict
			}

			// 5.2. Активные события на дату
			events, err := uc.eventRepo.GetActiveByProviderAndDate(txCtx, req.ProviderID, req.Date)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to get events, treating slot as taken: %v", err)
				return ErrSlotConflict
			}

			// 5.3. Проверка буферных конфликтов по объединённому календарю
			commitments := domain.CommitmentsFromBookings(bookings)
			commitments = append(commitments, domain.CommitmentsFromEvents(events, 0)...)

			if domain.HasBufferedConflict(startMin, durationMinutes, commitments, settings.BufferTimeMinutes) {
				uc.logger.Warn("CreateBooking: slot %s+%d min conflicts for provider id=%d",
					req.StartTime, durationMinutes, req.ProviderID)
				return ErrSlotConflict
			}

			// 5.4. Статус по режиму подтверждения провайдера
			status := domain.StatusConfirmed
			if settings.ConfirmationType == domain.ConfirmationManual {
				status = domain.StatusPending
			}

			booking := &domain.Booking{
				ProviderID:         req.ProviderID,
				ClientID:           req.ClientID,
				SessionDate:        req.Date,
				StartTime:          req.StartTime,
				DurationMinutes:    durationMinutes,
				TotalAmount:        req.TotalAmount,
				Status:             status,
				ConfirmationType:   settings.ConfirmationType,
				SessionType:        domain.SessionOneOnOne,
				LiveStreamRoomName: fmt.Sprintf("room-%s", uuid.NewString()),
				LiveStreamStatus:   domain.LiveStreamNotStarted,
			}

			created, err := uc.bookingRepo.Create(txCtx, booking)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to create booking: %v", err)
				return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
			}

			result = created
			return nil
		})
	})

	if err != nil {
		if errors.Is(err, slotlock.ErrLockNotAcquired) {
			uc.logger.Warn("CreateBooking: slot lock busy for provider=%d, date=%s, time=%s",
				req.ProviderID, req.Date.Format(domain.DateFormat), req.StartTime)
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d with status=%s", result.ID, result.Status)

	uc.sendNotifications(result)

	return &Response{
		ID:                 result.ID,
		ProviderID:         result.ProviderID,
		ClientID:           result.ClientID,
		SessionDate:        result.SessionDate,
		StartTime:          result.StartTime,
		DurationMinutes:    result.DurationMinutes,
		TotalAmount:        result.TotalAmount,
		Status:             string(result.Status),
		ConfirmationType:   string(result.ConfirmationType),
		SessionType:        string(result.SessionType),
		LiveStreamRoomName: result.LiveStreamRoomName,
		CreatedAt:          result.CreatedAt,
		UpdatedAt:          result.UpdatedAt,
	}, nil
}

// sendNotifications уведомляет стороны о созданном бронировании
// При ручном подтверждении провайдер получает запрос на подтверждение
func (uc *UseCase) sendNotifications(booking *domain.Booking) {
	payload := map[string]string{
		"bookingId":   fmt.Sprintf("%d", booking.ID),
		"sessionDate": booking.SessionDate.Format(domain.DateFormat),
		"startTime":   booking.StartTime.String(),
	}

	providerKind := notifyservice.KindBookingCreated
	if booking.Status == domain.StatusPending {
		providerKind = notifyservice.KindBookingRequested
	}

	uc.notifyClient.SendAsync(notifyservice.Notification{
		Kind:        providerKind,
		RecipientID: booking.ProviderID,
		ActorID:     booking.ClientID,
		Payload:     payload,
	})

	uc.notifyClient.SendAsync(notifyservice.Notification{
		Kind:        notifyservice.KindBookingCreated,
		RecipientID: booking.ClientID,
		ActorID:     booking.ClientID,
		Payload:     payload,
	})
}
