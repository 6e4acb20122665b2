package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lumeo-app/booking-service/internal/domain"
	settingsRepo "github.com/lumeo-app/booking-service/internal/infra/storage/settings"
	providerClient "github.com/lumeo-app/booking-service/internal/integrations/providerservice"
)

// UseCase use case для расчёта календаря доступности провайдера
type UseCase struct {
	bookingRepo    BookingRepository
	eventRepo      EventRepository
	settingsRepo   SettingsRepository
	providerClient ProviderServiceClient
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	eventRepo EventRepository,
	settingsRepo SettingsRepository,
	providerClient ProviderServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		settingsRepo:   settingsRepo,
		providerClient: providerClient,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case расчёта календаря
// Недоступный или неактивный провайдер - штатный ответ все дни available=false,
// а не ошибка: календарь виден публично и не раскрывает причину недоступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: provider=%d, range=%s..%s",
		req.ProviderID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	provider, err := uc.providerClient.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			uc.logger.Warn("GetAvailability: provider id=%d not found, returning unavailable calendar", req.ProviderID)
			return uc.unavailableCalendar(req), nil
		}
		uc.logger.Error("GetAvailability: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	if !provider.SubscriptionActive {
		uc.logger.Info("GetAvailability: provider id=%d subscription inactive, returning unavailable calendar", req.ProviderID)
		return uc.unavailableCalendar(req), nil
	}

	bufferMinutes := domain.DefaultBufferTimeMinutes
	settings, err := uc.settingsRepo.GetByProviderID(ctx, req.ProviderID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetAvailability: failed to get settings for provider id=%d: %v", req.ProviderID, err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
	} else {
		bufferMinutes = settings.BufferTimeMinutes
	}

	// Бронирования всего диапазона одним запросом, события добираются по дням
	bookings, err := uc.bookingRepo.GetByProviderWithFilter(ctx, domain.ProviderBookingsFilter{
		ProviderID: req.ProviderID,
		StartDate:  &req.StartDate,
		EndDate:    &req.EndDate,
	})
	if err != nil {
		// Не смогли проверить занятость — показываем календарь закрытым
		uc.logger.Error("GetAvailability: failed to get bookings, returning unavailable calendar: %v", err)
		return uc.unavailableCalendar(req), nil
	}

	bookingsByDate := groupBookingsByDate(bookings)

	days := make([]Day, 0)
	for date := req.StartDate; !date.After(req.EndDate); date = date.AddDate(0, 0, 1) {
		schedule := provider.OpenHours.ForDate(date)

		if !schedule.Available {
			days = append(days, Day{Date: date, Available: false, Slots: []Slot{}})
			continue
		}

		events, err := uc.eventRepo.GetActiveByProviderAndDate(ctx, req.ProviderID, date)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to get events for %s, marking day unavailable: %v",
				date.Format(domain.DateFormat), err)
			days = append(days, Day{Date: date, Available: false, Slots: []Slot{}})
			continue
		}

		commitments := domain.CommitmentsFromBookings(bookingsByDate[dateKey(date)])
		commitments = append(commitments, domain.CommitmentsFromEvents(events, 0)...)

		slots := generateDaySlots(schedule, commitments, domain.DefaultSessionDurationMinutes, bufferMinutes)

		days = append(days, Day{
			Date:      date,
			Available: hasFreeSlot(slots),
			Slots:     slots,
		})
	}

	uc.logger.Info("GetAvailability: calculated %d days for provider=%d", len(days), req.ProviderID)

	return &Response{
		ProviderID: req.ProviderID,
		Days:       days,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if req.EndDate.Before(req.StartDate) {
		return ErrInvalidDateRange
	}

	rangeDays := int(req.EndDate.Sub(req.StartDate).Hours()/24) + 1
	if rangeDays > domain.MaxAvailabilityRangeDays {
		return fmt.Errorf("%w: at most %d days per request", ErrRangeTooLarge, domain.MaxAvailabilityRangeDays)
	}

	return nil
}

// unavailableCalendar строит календарь, в котором все дни закрыты
func (uc *UseCase) unavailableCalendar(req *Request) *Response {
	days := make([]Day, 0)
	for date := req.StartDate; !date.After(req.EndDate); date = date.AddDate(0, 0, 1) {
		days = append(days, Day{Date: date, Available: false, Slots: []Slot{}})
	}
	return &Response{ProviderID: req.ProviderID, Days: days}
}

// groupBookingsByDate раскладывает бронирования по датам сессий
func groupBookingsByDate(bookings []*domain.Booking) map[string][]*domain.Booking {
	grouped := make(map[string][]*domain.Booking, len(bookings))
	for _, b := range bookings {
		key := dateKey(b.SessionDate)
		grouped[key] = append(grouped[key], b)
	}
	return grouped
}

func dateKey(date time.Time) string {
	return date.Format(domain.DateFormat)
}
