package event

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/lumeo-app/booking-service/internal/domain"
	"github.com/lumeo-app/booking-service/pkg/dbmetrics"
	"github.com/lumeo-app/booking-service/pkg/psqlbuilder"
)

// eventColumns полный набор колонок таблицы events в порядке сканирования
var eventColumns = []string{
	"id",
	"provider_id",
	"title",
	"description",
	"session_date",
	"start_time",
	"duration_minutes",
	"max_participants",
	"current_participants",
	"price_per_person",
	"status",
	"live_stream_room_name",
	"live_stream_status",
	"is_public",
	"tags",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с событиями (групповыми сессиями)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое событие
func (r *Repository) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("events").
		Columns(
			"provider_id",
			"title",
			"description",
			"session_date",
			"start_time",
			"duration_minutes",
			"max_participants",
			"current_participants",
			"price_per_person",
			"status",
			"live_stream_room_name",
			"live_stream_status",
			"is_public",
			"tags",
		).
		Values(
			e.ProviderID,
			e.Title,
			e.Description,
			e.SessionDate,
			e.StartTime,
			e.DurationMinutes,
			e.MaxParticipants,
			e.CurrentParticipants,
			e.PricePerPerson,
			e.Status,
			e.LiveStreamRoomName,
			e.LiveStreamStatus,
			e.IsPublic,
			pq.Array(e.Tags),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&e.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time

	return e, nil
}

// GetByID получает событие по ID
// Внутри транзакции строка блокируется (FOR UPDATE) - счётчик участников
// меняется только под блокировкой
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan event: %v", ErrScanRow, err)
	}

	return e, nil
}

// GetActiveByProviderAndDate получает активные (active/full) события провайдера на дату
// Используется проверкой конфликтов и календарём доступности
func (r *Repository) GetActiveByProviderAndDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.Event, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{
			"provider_id":  providerID,
			"session_date": date,
			"status":       []string{string(domain.EventActive), string(domain.EventFull)},
		}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByProviderAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByProviderAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

// GetByProviderID получает события провайдера
// onlyUpcoming ограничивает выборку незавершёнными событиями
func (r *Repository) GetByProviderID(ctx context.Context, providerID int64, onlyUpcoming bool) ([]*domain.Event, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("session_date ASC, start_time ASC")

	if onlyUpcoming {
		selectBuilder = selectBuilder.Where(squirrel.Eq{
			"status": []string{string(domain.EventActive), string(domain.EventFull)},
		})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

// AdjustParticipants единственная точка изменения счётчика участников в хранилище
// Читает событие под блокировкой, применяет клампированную дельту через доменную
// модель и сохраняет счётчик вместе с выведенным статусом
// Должен вызываться внутри транзакции
func (r *Repository) AdjustParticipants(ctx context.Context, eventID int64, delta int) (*domain.Event, error) {
	e, err := r.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	e.ApplyParticipantsDelta(delta)

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("events").
		Set("current_participants", e.CurrentParticipants).
		Set("status", e.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": eventID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AdjustParticipants - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: AdjustParticipants - execute update: %v", ErrExecQuery, err)
	}

	return e, nil
}

// UpdateStatus обновляет статус события
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.EventStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("events").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "UpdateStatus", query, args)
}

// SetLiveStreamStatus обновляет статус live-трансляции события
func (r *Repository) SetLiveStreamStatus(ctx context.Context, id int64, status domain.LiveStreamStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("events").
		Set("live_stream_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetLiveStreamStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "SetLiveStreamStatus", query, args)
}

// Complete завершает событие: status=completed, live_stream_status=ended
func (r *Repository) Complete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("events").
		Set("status", domain.EventCompleted).
		Set("live_stream_status", domain.LiveStreamEnded).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Complete - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "Complete", query, args)
}

// ListExpiredActive получает незавершённые (active/full) события,
// чьё расчётное время окончания уже в прошлом
// Используется фоновой зачисткой auto-complete
func (r *Repository) ListExpiredActive(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{
			"status": []string{string(domain.EventActive), string(domain.EventFull)},
		}).
		Where(squirrel.Expr(
			"session_date + start_time::time + make_interval(mins => duration_minutes) < ?",
			now,
		)).
		OrderBy("session_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

// Delete удаляет событие (физическое удаление)
// Вызывается только после проверки отсутствия подтверждённых бронирований
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("events").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "Delete", query, args)
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&e.ID,
		&e.ProviderID,
		&e.Title,
		&e.Description,
		&e.SessionDate,
		&e.StartTime,
		&e.DurationMinutes,
		&e.MaxParticipants,
		&e.CurrentParticipants,
		&e.PricePerPerson,
		&e.Status,
		&e.LiveStreamRoomName,
		&e.LiveStreamStatus,
		&e.IsPublic,
		pq.Array(&e.Tags),
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time

	return &e, nil
}

// scanEvents сканирует результаты запроса в слайс событий
func (r *Repository) scanEvents(rows *sql.Rows) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEvents - scan row: %v", ErrScanRow, err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEvents - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}
