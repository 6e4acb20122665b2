package sweeps

import (
	"context"
	"fmt"
	"time"

	"github.com/lumeo-app/booking-service/internal/domain"
	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

// Service фоновые зачистки календаря
// Оба прохода идемпотентны: повторный запуск по тем же данным ничего не меняет
type Service struct {
	bookingRepo  BookingRepository
	eventRepo    EventRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса зачисток
func NewService(
	bookingRepo BookingRepository,
	eventRepo EventRepository,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		eventRepo:    eventRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// AutoCompleteFinished переводит истёкшие подтверждённые бронирования в completed
// и истёкшие активные события в completed
// Ошибка по одной записи не прерывает проход по остальным
func (s *Service) AutoCompleteFinished(ctx context.Context) error {
	now := s.timeProvider.Now()

	bookings, err := s.bookingRepo.ListExpiredConfirmed(ctx, now)
	if err != nil {
		s.logger.Error("AutoCompleteFinished: failed to list expired bookings: %v", err)
		return fmt.Errorf("autocomplete sweep: list expired bookings: %w", err)
	}

	completed := 0
	for _, booking := range bookings {
		if err := s.bookingRepo.CompleteSession(ctx, booking.ID); err != nil {
			s.logger.Error("AutoCompleteFinished: failed to complete booking id=%d: %v", booking.ID, err)
			continue
		}
		completed++
	}

	events, err := s.eventRepo.ListExpiredActive(ctx, now)
	if err != nil {
		s.logger.Error("AutoCompleteFinished: failed to list expired events: %v", err)
		return fmt.Errorf("autocomplete sweep: list expired events: %w", err)
	}

	completedEvents := 0
	for _, event := range events {
		if err := s.eventRepo.Complete(ctx, event.ID); err != nil {
			s.logger.Error("AutoCompleteFinished: failed to complete event id=%d: %v", event.ID, err)
			continue
		}
		completedEvents++
	}

	if completed > 0 || completedEvents > 0 {
		s.logger.Info("AutoCompleteFinished: completed %d bookings and %d events", completed, completedEvents)
	}

	return nil
}

// FlagImminent выставляет ready_to_start подтверждённым бронированиям,
// начинающимся в ближайшие минуты
func (s *Service) FlagImminent(ctx context.Context) error {
	now := s.timeProvider.Now()

	windowEnd := now.Add(time.Duration(domain.ReadyToStartWindowMinutes) * time.Minute)
	if windowEnd.Day() != now.Day() {
		// Окно не переходит через полночь, хвост доберёт следующий запуск
		windowEnd = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
	}

	maxStart := timeslot.NewTimeString(windowEnd)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	bookings, err := s.bookingRepo.ListReadyCandidates(ctx, today, maxStart)
	if err != nil {
		s.logger.Error("FlagImminent: failed to list ready candidates: %v", err)
		return fmt.Errorf("ready flag sweep: list candidates: %w", err)
	}

	flagged := 0
	for _, booking := range bookings {
		if err := s.bookingRepo.SetReadyToStart(ctx, booking.ID); err != nil {
			s.logger.Error("FlagImminent: failed to flag booking id=%d: %v", booking.ID, err)
			continue
		}
		flagged++
	}

	if flagged > 0 {
		s.logger.Info("FlagImminent: flagged %d bookings as ready to start", flagged)
	}

	return nil
}
