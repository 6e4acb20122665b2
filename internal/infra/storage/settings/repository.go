package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/lumeo-app/booking-service/internal/domain"
	"github.com/lumeo-app/booking-service/pkg/dbmetrics"
	"github.com/lumeo-app/booking-service/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов, см. dbmetrics
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий настроек бронирования провайдера
// Таблица имеет уникальный индекс по provider_id: "первая найденная из нескольких строк"
// исключена на уровне схемы
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProviderID получает настройки бронирования провайдера
func (r *Repository) GetByProviderID(ctx context.Context, providerID int64) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"confirmation_type",
		"buffer_time_minutes",
		"created_at",
		"updated_at",
	).
		From("booking_settings").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.BookingSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.ProviderID,
		&s.ConfirmationType,
		&s.BufferTimeMinutes,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - scan settings: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// Upsert создает или обновляет настройки провайдера
func (r *Repository) Upsert(ctx context.Context, s *domain.BookingSettings) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_settings").
		Columns("provider_id", "confirmation_type", "buffer_time_minutes").
		Values(s.ProviderID, s.ConfirmationType, s.BufferTimeMinutes).
		Suffix(`ON CONFLICT (provider_id) DO UPDATE
			SET confirmation_type = EXCLUDED.confirmation_type,
			    buffer_time_minutes = EXCLUDED.buffer_time_minutes,
			    updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}
