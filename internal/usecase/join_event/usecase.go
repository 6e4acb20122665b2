package join_event

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumeo-app/booking-service/internal/domain"
	eventRepo "github.com/lumeo-app/booking-service/internal/infra/storage/event"
	settingsRepo "github.com/lumeo-app/booking-service/internal/infra/storage/settings"
	"github.com/lumeo-app/booking-service/internal/integrations/notifyservice"
)

// UseCase use case для присоединения клиента к групповому событию
type UseCase struct {
	bookingRepo  BookingRepository
	eventRepo    EventRepository
	settingsRepo SettingsRepository
	notifyClient NotifyServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	eventRepo EventRepository,
	settingsRepo SettingsRepository,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		eventRepo:    eventRepo,
		settingsRepo: settingsRepo,
		notifyClient: notifyClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case присоединения к событию
// Сериализуемая транзакция с блокировкой строки события гарантирует,
// что событие не переполнится при конкурентных присоединениях
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("JoinEvent: client=%d joining event=%d", req.ClientID, req.EventID)

	if req.EventID <= 0 || req.ClientID <= 0 {
		uc.logger.Warn("JoinEvent: invalid input: event=%d, client=%d", req.EventID, req.ClientID)
		return nil, fmt.Errorf("%w: eventID and clientID must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking
	var event *domain.Event

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Событие под блокировкой строки (FOR UPDATE)
		e, err := uc.eventRepo.GetByID(txCtx, req.EventID)
		if err != nil {
			if errors.Is(err, eventRepo.ErrEventNotFound) {
				return ErrEventNotFound
			}
			uc.logger.Error("JoinEvent: failed to get event id=%d: %v", req.EventID, err)
			return fmt.Errorf("%w: failed to get event: %v", ErrInternal, err)
		}

		if e.ProviderID == req.ClientID {
			return ErrSelfJoin
		}

		if e.IsFinished() {
			return ErrEventNotActive
		}

		if e.EndsBefore(now) {
			return ErrEventStarted
		}

		if !e.IsJoinable() {
			return ErrEventFull
		}

		// 2. Повторное активное бронирование того же события запрещено
		existing, err := uc.bookingRepo.GetActiveByEventAndClient(txCtx, req.EventID, req.ClientID)
		if err != nil {
			uc.logger.Error("JoinEvent: failed to check existing bookings: %v", err)
			return fmt.Errorf("%w: failed to check existing bookings: %v", ErrInternal, err)
		}
		if len(existing) > 0 {
			return ErrAlreadyBooked
		}

		// 3. Режим подтверждения берётся из настроек провайдера события
		confirmationType := domain.ConfirmationAutomatic
		settings, err := uc.settingsRepo.GetByProviderID(txCtx, e.ProviderID)
		if err != nil {
			if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
				uc.logger.Error("JoinEvent: failed to get settings for provider id=%d: %v", e.ProviderID, err)
				return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
			}
		} else {
			confirmationType = settings.ConfirmationType
		}

		status := domain.StatusConfirmed
		if confirmationType == domain.ConfirmationManual {
			status = domain.StatusPending
		}

		// 4. Бронирование наследует время, длительность и комнату события
		booking := &domain.Booking{
			ProviderID:         e.ProviderID,
			ClientID:           req.ClientID,
			EventID:            &e.ID,
			SessionDate:        e.SessionDate,
			StartTime:          e.StartTime,
			DurationMinutes:    e.DurationMinutes,
			TotalAmount:        e.PricePerPerson,
			Status:             status,
			ConfirmationType:   confirmationType,
			SessionType:        domain.SessionOneToMany,
			LiveStreamRoomName: e.LiveStreamRoomName,
			LiveStreamStatus:   domain.LiveStreamNotStarted,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("JoinEvent: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 5. Место занимает только подтверждённое бронирование
		if status == domain.StatusConfirmed {
			updated, err := uc.eventRepo.AdjustParticipants(txCtx, e.ID, 1)
			if err != nil {
				uc.logger.Error("JoinEvent: failed to take event seat: %v", err)
				return fmt.Errorf("%w: failed to take event seat: %v", ErrInternal, err)
			}
			e = updated
		}

		result = created
		event = e
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrEventNotFound) || errors.Is(err, ErrEventNotActive) ||
			errors.Is(err, ErrEventFull) || errors.Is(err, ErrEventStarted) ||
			errors.Is(err, ErrAlreadyBooked) || errors.Is(err, ErrSelfJoin) {
			uc.logger.Warn("JoinEvent: event=%d, client=%d: %v", req.EventID, req.ClientID, err)
			return nil, err
		}
		return nil, err
	}

	uc.logger.Info("JoinEvent: client=%d joined event=%d, booking id=%d, participants=%d/%d",
		req.ClientID, req.EventID, result.ID, event.CurrentParticipants, event.MaxParticipants)

	uc.sendNotifications(result, event)

	return &Response{
		ID:                  result.ID,
		EventID:             event.ID,
		ProviderID:          result.ProviderID,
		ClientID:            result.ClientID,
		SessionDate:         result.SessionDate,
		StartTime:           result.StartTime,
		DurationMinutes:     result.DurationMinutes,
		TotalAmount:         result.TotalAmount,
		Status:              string(result.Status),
		ConfirmationType:    string(result.ConfirmationType),
		SessionType:         string(result.SessionType),
		LiveStreamRoomName:  result.LiveStreamRoomName,
		CurrentParticipants: event.CurrentParticipants,
		MaxParticipants:     event.MaxParticipants,
		CreatedAt:           result.CreatedAt,
		UpdatedAt:           result.UpdatedAt,
	}, nil
}

// sendNotifications уведомляет провайдера о новом участнике и клиента о его бронировании
// При ручном подтверждении провайдер получает запрос на подтверждение
func (uc *UseCase) sendNotifications(booking *domain.Booking, event *domain.Event) {
	payload := map[string]string{
		"bookingId": fmt.Sprintf("%d", booking.ID),
		"eventId":   fmt.Sprintf("%d", event.ID),
		"title":     event.Title,
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
