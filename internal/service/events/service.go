package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lumeo-app/booking-service/internal/domain"
	eventRepo "github.com/lumeo-app/booking-service/internal/infra/storage/event"
	settingsRepo "github.com/lumeo-app/booking-service/internal/infra/storage/settings"
	"github.com/lumeo-app/booking-service/internal/integrations/notifyservice"
	"github.com/lumeo-app/booking-service/internal/integrations/providerservice"
	"github.com/lumeo-app/booking-service/internal/service/events/models"
	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

// Service сервис для работы с групповыми событиями
type Service struct {
	eventRepo      EventRepository
	bookingRepo    BookingRepository
	settingsRepo   SettingsRepository
	providerClient ProviderServiceClient
	notifyClient   NotifyServiceClient
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса событий
func NewService(
	eventRepo EventRepository,
	bookingRepo BookingRepository,
	settingsRepo SettingsRepository,
	providerClient ProviderServiceClient,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		eventRepo:      eventRepo,
		bookingRepo:    bookingRepo,
		settingsRepo:   settingsRepo,
		providerClient: providerClient,
		notifyClient:   notifyClient,
		txManager:      txManager,
		timeProvider:   timeProvider,
		logger:         logger,
	}
}

// Create создает групповое событие
// Событие проходит те же проверки конфликтов, что и обычное бронирование:
// рабочие часы провайдера и буферные зоны после существующих обязательств
func (s *Service) Create(ctx context.Context, req *models.CreateEventRequest) (*models.EventResponse, error) {
	s.logger.Info("Create: creating event for provider=%d on %s at %s", req.ProviderID, req.SessionDate, req.StartTime)

	date, start, err := s.validateCreateRequest(req)
	if err != nil {
		s.logger.Warn("Create: validation failed for provider=%d: %v", req.ProviderID, err)
		return nil, err
	}

	provider, err := s.providerClient.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerservice.ErrProviderNotFound) {
			s.logger.Warn("Create: provider=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		s.logger.Error("Create: failed to get provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Create - failed to get provider: %v", ErrInternal, err)
	}

	if !provider.SubscriptionActive {
		s.logger.Warn("Create: provider=%d subscription is not active", req.ProviderID)
		return nil, ErrProviderInactive
	}

	startMin := start.Minutes()
	endMin := startMin + req.DurationMinutes

	if !provider.OpenHours.ForDate(date).Covers(startMin, endMin) {
		s.logger.Warn("Create: event for provider=%d outside working hours: %s-%d min", req.ProviderID, start, req.DurationMinutes)
		return nil, ErrOutsideWorkingHours
	}

	bufferMin := s.bufferTimeMinutes(ctx, req.ProviderID)

	event := req.ToDomainEvent(date, start)
	event.LiveStreamRoomName = fmt.Sprintf("room-%s", uuid.NewString())

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// Однодневный фильтр внутри транзакции блокирует строки конкурентов
		bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, domain.ProviderBookingsFilter{
			ProviderID: req.ProviderID,
			StartDate:  &date,
			EndDate:    &date,
		})
		if err != nil {
			// Не смогли проверить занятость — слот считается занятым
			s.logger.Error("Create: failed to load bookings, treating slot as taken: %v", err)
			return ErrTimeConflict
		}

		existingEvents, err := s.eventRepo.GetActiveByProviderAndDate(ctx, req.ProviderID, date)
		if err != nil {
			s.logger.Error("Create: failed to load events, treating slot as taken: %v", err)
			return ErrTimeConflict
		}

		commitments := domain.CommitmentsFromBookings(bookings)
		commitments = append(commitments, domain.CommitmentsFromEvents(existingEvents, 0)...)

		if domain.HasBufferedConflict(startMin, req.DurationMinutes, commitments, bufferMin) {
			return ErrTimeConflict
		}

		created, err := s.eventRepo.Create(ctx, event)
		if err != nil {
			return fmt.Errorf("%w: Create - failed to create event: %v", ErrInternal, err)
		}

		event = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrTimeConflict) {
			s.logger.Warn("Create: time conflict for provider=%d on %s at %s", req.ProviderID, req.SessionDate, req.StartTime)
			return nil, err
		}
		s.logger.Error("Create: transaction failed for provider=%d: %v", req.ProviderID, err)
		return nil, err
	}

	s.logger.Info("Create: successfully created event id=%d for provider=%d", event.ID, req.ProviderID)
	return models.FromDomainEvent(event), nil
}

// GetByID получает событие по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.EventResponse, error) {
	s.logger.Info("GetByID: fetching event id=%d", id)

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			s.logger.Warn("GetByID: event id=%d not found", id)
			return nil, ErrEventNotFound
		}
		s.logger.Error("GetByID: repository error for event id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainEvent(event), nil
}

// GetByProviderID получает события провайдера
// onlyUpcoming оставляет только события с датой не раньше сегодняшней
func (s *Service) GetByProviderID(ctx context.Context, providerID int64, onlyUpcoming bool) (*models.EventListResponse, error) {
	s.logger.Info("GetByProviderID: fetching events for provider=%d, onlyUpcoming=%t", providerID, onlyUpcoming)

	events, err := s.eventRepo.GetByProviderID(ctx, providerID, onlyUpcoming)
	if err != nil {
		s.logger.Error("GetByProviderID: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetByProviderID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByProviderID: successfully fetched %d events for provider=%d", len(events), providerID)
	return models.FromDomainEventList(events), nil
}

// Cancel отменяет событие и каскадно отменяет все его активные бронирования
// Каждый участник получает уведомление об отмене
func (s *Service) Cancel(ctx context.Context, eventID int64, req *models.CancelEventRequest) error {
	s.logger.Info("Cancel: cancelling event id=%d by provider=%d", eventID, req.ProviderID)

	var notifications []notifyservice.Notification

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, eventRepo.ErrEventNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if event.ProviderID != req.ProviderID {
			return ErrAccessDenied
		}

		if event.IsFinished() {
			return ErrEventFinished
		}

		if err := s.eventRepo.UpdateStatus(ctx, eventID, domain.EventCancelled); err != nil {
			return fmt.Errorf("%w: Cancel - failed to update event status: %v", ErrInternal, err)
		}

		bookings, err := s.bookingRepo.GetByEventID(ctx, eventID, true)
		if err != nil {
			return fmt.Errorf("%w: Cancel - failed to load event bookings: %v", ErrInternal, err)
		}

		reason := req.Reason
		if reason == "" {
			reason = "event cancelled by provider"
		}

		for _, booking := range bookings {
			if err := s.bookingRepo.Cancel(ctx, booking.ID, reason); err != nil {
				return fmt.Errorf("%w: Cancel - failed to cancel booking id=%d: %v", ErrInternal, booking.ID, err)
			}

			notifications = append(notifications, notifyservice.Notification{
				Kind:        notifyservice.KindEventCancelled,
				RecipientID: booking.ClientID,
				ActorID:     req.ProviderID,
				Payload: map[string]string{
					"eventId":   fmt.Sprintf("%d", eventID),
					"bookingId": fmt.Sprintf("%d", booking.ID),
					"title":     event.Title,
					"reason":    reason,
				},
			})
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrEventNotFound) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrEventFinished) {
			s.logger.Warn("Cancel: event id=%d: %v", eventID, err)
			return err
		}
		s.logger.Error("Cancel: transaction failed for event id=%d: %v", eventID, err)
		return err
	}

	for _, n := range notifications {
		s.notifyClient.SendAsync(n)
	}

	s.logger.Info("Cancel: successfully cancelled event id=%d with %d participant bookings", eventID, len(notifications))
	return nil
}

// Delete удаляет событие
// Удаление возможно только пока нет подтверждённых бронирований,
// неподтверждённые удаляются вместе с событием
func (s *Service) Delete(ctx context.Context, eventID int64, providerID int64) error {
	s.logger.Info("Delete: deleting event id=%d by provider=%d", eventID, providerID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, eventRepo.ErrEventNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		if event.ProviderID != providerID {
			return ErrAccessDenied
		}

		bookings, err := s.bookingRepo.GetByEventID(ctx, eventID, false)
		if err != nil {
			return fmt.Errorf("%w: Delete - failed to load event bookings: %v", ErrInternal, err)
		}

		for _, booking := range bookings {
			if booking.Status == domain.StatusConfirmed {
				return ErrHasConfirmedBookings
			}
		}

		if err := s.bookingRepo.DeleteNonConfirmedByEventID(ctx, eventID); err != nil {
			return fmt.Errorf("%w: Delete - failed to delete event bookings: %v", ErrInternal, err)
		}

		if err := s.eventRepo.Delete(ctx, eventID); err != nil {
			return fmt.Errorf("%w: Delete - failed to delete event: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrEventNotFound) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrHasConfirmedBookings) {
			s.logger.Warn("Delete: event id=%d: %v", eventID, err)
			return err
		}
		s.logger.Error("Delete: transaction failed for event id=%d: %v", eventID, err)
		return err
	}

	s.logger.Info("Delete: successfully deleted event id=%d", eventID)
	return nil
}

// Вспомогательные методы

// validateCreateRequest проверяет входные данные и разбирает дату и время
func (s *Service) validateCreateRequest(req *models.CreateEventRequest) (time.Time, timeslot.TimeString, error) {
	if req.Title == "" {
		return time.Time{}, "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	if req.MaxParticipants < domain.MinEventParticipants {
		return time.Time{}, "", fmt.Errorf("%w: maxParticipants must be at least %d", ErrInvalidInput, domain.MinEventParticipants)
	}

	if req.PricePerPerson < 0 {
		return time.Time{}, "", fmt.Errorf("%w: pricePerPerson must not be negative", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 {
		return time.Time{}, "", fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	date, err := time.Parse(domain.DateFormat, req.SessionDate)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid sessionDate format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	start, err := timeslot.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid startTime format, expected HH:MM", ErrInvalidInput)
	}

	if start.Minutes()+req.DurationMinutes > timeslot.MinutesPerDay {
		return time.Time{}, "", fmt.Errorf("%w: event must end before midnight", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return time.Time{}, "", fmt.Errorf("%w: sessionDate must not be in the past", ErrInvalidInput)
	}

	return date, start, nil
}

// bufferTimeMinutes возвращает буфер провайдера, либо значение по умолчанию
func (s *Service) bufferTimeMinutes(ctx context.Context, providerID int64) int {
	settings, err := s.settingsRepo.GetByProviderID(ctx, providerID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("bufferTimeMinutes: failed to load settings for provider=%d, using defaults: %v", providerID, err)
		}
		return domain.DefaultBufferTimeMinutes
	}
	return settings.BufferTimeMinutes
}
