package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumeo-app/booking-service/internal/domain"
	bookingRepo "github.com/lumeo-app/booking-service/internal/infra/storage/booking"
	"github.com/lumeo-app/booking-service/internal/integrations/notifyservice"
	"github.com/lumeo-app/booking-service/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	eventRepo    EventRepository
	notifyClient NotifyServiceClient
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	eventRepo EventRepository,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		eventRepo:    eventRepo,
		notifyClient: notifyClient,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - бронирование видят только его клиент и его провайдер
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.ClientID != userID && booking.ProviderID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает бронирования провайдера с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу, типу сессии и включению неактивных бронирований
// Доступно только самому провайдеру
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProviderBookings: fetching bookings for provider=%d, user=%d", req.ProviderID, req.UserID)

	// Календарь провайдера доступен только ему самому
	if req.UserID != req.ProviderID {
		s.logger.Warn("GetProviderBookings: access denied for user=%d to provider=%d bookings", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: successfully fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Клиент может отменить своё бронирование, провайдер - бронирование в своём календаре
// Для подтверждённого event-бронирования освобождает место в событии в той же транзакции
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	var notification *notifyservice.Notification

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// GetByID внутри транзакции берёт блокировку строки
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if booking.ClientID != req.UserID && booking.ProviderID != req.UserID {
			return ErrAccessDenied
		}

		if !booking.CanBeCancelled() {
			return ErrCannotCancel
		}

		wasConfirmed := booking.Status == domain.StatusConfirmed

		if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Подтверждённое event-бронирование занимало место, освобождаем его
		if wasConfirmed && booking.IsEventBooking() {
			if _, err := s.eventRepo.AdjustParticipants(ctx, *booking.EventID, -1); err != nil {
				return fmt.Errorf("%w: Cancel - failed to release event seat: %v", ErrInternal, err)
			}
		}

		// Уведомляем вторую сторону после фиксации транзакции
		recipientID := booking.ProviderID
		if req.UserID == booking.ProviderID {
			recipientID = booking.ClientID
		}
		notification = &notifyservice.Notification{
			Kind:        notifyservice.KindBookingCancelled,
			RecipientID: recipientID,
			ActorID:     req.UserID,
			Payload: map[string]string{
				"bookingId": fmt.Sprintf("%d", bookingID),
				"reason":    req.CancellationReason,
			},
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrCannotCancel) {
			s.logger.Warn("Cancel: booking id=%d: %v", bookingID, err)
			return err
		}
		s.logger.Error("Cancel: transaction failed for booking id=%d: %v", bookingID, err)
		return err
	}

	if notification != nil {
		s.notifyClient.SendAsync(*notification)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// UpdateStatus обновляет статус бронирования
// Доступно только провайдеру бронирования
// Переходы статусов ограничены: pending -> confirmed|cancelled|rejected,
// confirmed -> completed|cancelled|rejected
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by provider=%d",
		bookingID, req.Status, req.ProviderID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidStatus)
	}

	var notification *notifyservice.Notification

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if booking.ProviderID != req.ProviderID {
			return ErrAccessDenied
		}

		if !booking.CanTransitionTo(newStatus) {
			return ErrInvalidTransition
		}

		oldStatus := booking.Status

		// Отмена через смену статуса проставляет cancelled_at так же,
		// как и отдельный эндпоинт отмены
		if newStatus == domain.StatusCancelled {
			if err := s.bookingRepo.Cancel(ctx, bookingID, ""); err != nil {
				return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
			}
		} else {
			if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
				return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
			}
		}

		// Учёт мест в событии: место занимает только подтверждённое бронирование
		if booking.IsEventBooking() {
			switch {
			case oldStatus == domain.StatusPending && newStatus == domain.StatusConfirmed:
				if _, err := s.eventRepo.AdjustParticipants(ctx, *booking.EventID, 1); err != nil {
					return fmt.Errorf("%w: UpdateStatus - failed to take event seat: %v", ErrInternal, err)
				}
			case oldStatus == domain.StatusConfirmed && (newStatus == domain.StatusCancelled || newStatus == domain.StatusRejected):
				if _, err := s.eventRepo.AdjustParticipants(ctx, *booking.EventID, -1); err != nil {
					return fmt.Errorf("%w: UpdateStatus - failed to release event seat: %v", ErrInternal, err)
				}
			}
		}

		// Клиент узнаёт об исходе своего запроса на бронирование
		if oldStatus == domain.StatusPending {
			var kind notifyservice.NotificationKind
			switch newStatus {
			case domain.StatusConfirmed:
				kind = notifyservice.KindBookingApproved
			case domain.StatusRejected:
				kind = notifyservice.KindBookingRejected
			case domain.StatusCancelled:
				kind = notifyservice.KindBookingCancelled
			}

			if kind != "" {
				payload := map[string]string{
					"bookingId": fmt.Sprintf("%d", bookingID),
				}
				for k, v := range req.SessionDetails {
					payload[k] = v
				}
				notification = &notifyservice.Notification{
					Kind:        kind,
					RecipientID: booking.ClientID,
					ActorID:     req.ProviderID,
					Payload:     payload,
				}
			}
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrInvalidTransition) {
			s.logger.Warn("UpdateStatus: booking id=%d: %v", bookingID, err)
			return err
		}
		s.logger.Error("UpdateStatus: transaction failed for booking id=%d: %v", bookingID, err)
		return err
	}

	if notification != nil {
		s.notifyClient.SendAsync(*notification)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// StartSession запускает live-трансляцию сессии
// Доступно только провайдеру и только для подтверждённого бронирования
func (s *Service) StartSession(ctx context.Context, bookingID int64, providerID int64) error {
	s.logger.Info("StartSession: starting session for booking id=%d by provider=%d", bookingID, providerID)

	var notification *notifyservice.Notification

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: StartSession - repository error: %v", ErrInternal, err)
		}

		if booking.ProviderID != providerID {
			return ErrAccessDenied
		}

		if booking.Status != domain.StatusConfirmed || booking.LiveStreamStatus == domain.LiveStreamLive {
			return ErrSessionNotStartable
		}

		if err := s.bookingRepo.SetLiveStreamStatus(ctx, bookingID, domain.LiveStreamLive); err != nil {
			return fmt.Errorf("%w: StartSession - repository error: %v", ErrInternal, err)
		}

		// Для группового события статус трансляции дублируется на само событие
		if booking.IsEventBooking() {
			if err := s.eventRepo.SetLiveStreamStatus(ctx, *booking.EventID, domain.LiveStreamLive); err != nil {
				return fmt.Errorf("%w: StartSession - failed to update event stream: %v", ErrInternal, err)
			}
		}

		notification = &notifyservice.Notification{
			Kind:        notifyservice.KindSessionStarted,
			RecipientID: booking.ClientID,
			ActorID:     providerID,
			Payload: map[string]string{
				"bookingId": fmt.Sprintf("%d", bookingID),
				"roomName":  booking.LiveStreamRoomName,
			},
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrSessionNotStartable) {
			s.logger.Warn("StartSession: booking id=%d: %v", bookingID, err)
			return err
		}
		s.logger.Error("StartSession: transaction failed for booking id=%d: %v", bookingID, err)
		return err
	}

	if notification != nil {
		s.notifyClient.SendAsync(*notification)
	}

	s.logger.Info("StartSession: session started for booking id=%d", bookingID)
	return nil
}

// StopSession завершает live-трансляцию сессии
// Бронирование переводится в completed, трансляция - в ended
func (s *Service) StopSession(ctx context.Context, bookingID int64, providerID int64) error {
	s.logger.Info("StopSession: stopping session for booking id=%d by provider=%d", bookingID, providerID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: StopSession - repository error: %v", ErrInternal, err)
		}

		if booking.ProviderID != providerID {
			return ErrAccessDenied
		}

		if booking.LiveStreamStatus != domain.LiveStreamLive {
			return ErrSessionNotLive
		}

		if err := s.bookingRepo.CompleteSession(ctx, bookingID); err != nil {
			return fmt.Errorf("%w: StopSession - repository error: %v", ErrInternal, err)
		}

		if booking.IsEventBooking() {
			if err := s.eventRepo.SetLiveStreamStatus(ctx, *booking.EventID, domain.LiveStreamEnded); err != nil {
				return fmt.Errorf("%w: StopSession - failed to update event stream: %v", ErrInternal, err)
			}
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrSessionNotLive) {
			s.logger.Warn("StopSession: booking id=%d: %v", bookingID, err)
			return err
		}
		s.logger.Error("StopSession: transaction failed for booking id=%d: %v", bookingID, err)
		return err
	}

	s.logger.Info("StopSession: session completed for booking id=%d", bookingID)
	return nil
}
