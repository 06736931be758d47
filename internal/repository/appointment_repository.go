package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Код exclusion_violation: сработало DB-ограничение на пересечение
// интервалов (страховка поверх прикладной проверки в транзакции)
const pgExclusionViolation = "23P01"

const appointmentColumns = `id, user_id, provider_id, start_time, end_time, status, service_description, created_at, updated_at`

type AppointmentRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewAppointmentRepository(pool *pgxpool.Pool, logger *zap.Logger) *AppointmentRepository {
	return &AppointmentRepository{
		pool:   pool,
		logger: logger,
	}
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	appt := &model.Appointment{}
	err := row.Scan(
		&appt.ID,
		&appt.UserID,
		&appt.ProviderID,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.ServiceDescription,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return appt, nil
}

// GetByUser получает все записи пользователя
func (r *AppointmentRepository) GetByUser(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE user_id = $1
		ORDER BY start_time DESC
	`
	return r.queryMany(ctx, query, userID)
}

// GetByProvider получает все записи поставщика
func (r *AppointmentRepository) GetByProvider(ctx context.Context, providerID int64) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE provider_id = $1
		ORDER BY start_time DESC
	`
	return r.queryMany(ctx, query, providerID)
}

// GetActiveOverlapping получает нефинальные записи поставщика,
// пересекающиеся с окном [from, to). Записи, начавшиеся до окна и
// заканчивающиеся внутри него, тоже попадают в выборку
func (r *AppointmentRepository) GetActiveOverlapping(ctx context.Context, providerID int64, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE provider_id = $1
		  AND status IN ('scheduled', 'confirmed')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time
	`
	return r.queryMany(ctx, query, providerID, from, to)
}

func (r *AppointmentRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*model.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, appt)
	}

	return appointments, nil
}

// CreateIfFree атомарно проверяет выбранный интервал против текущего
// состояния поставщика и вставляет запись. Вся проверка выполняется в
// одной транзакции с блокировкой строки поставщика, чтобы конкурентные
// коммиты на одного поставщика сериализовались; DB-ограничение на
// пересечение интервалов остаётся страховкой.
// Повторная идентичная заявка (тот же пользователь, поставщик и
// интервал, нефинальный статус) возвращает существующую запись.
func (r *AppointmentRepository) CreateIfFree(ctx context.Context, appt *model.Appointment) (*model.Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Сериализуем коммиты по поставщику
	var providerID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM providers WHERE id = $1 FOR UPDATE`,
		appt.ProviderID,
	).Scan(&providerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock provider: %w", err)
	}

	// Идемпотентность: повторная подача той же заявки
	existing, err := scanAppointment(tx.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE user_id = $1 AND provider_id = $2
		  AND start_time = $3 AND end_time = $4
		  AND status IN ('scheduled', 'confirmed')
	`, appt.UserID, appt.ProviderID, appt.StartTime, appt.EndTime))
	if err == nil {
		r.logger.Info("Duplicate booking submission, returning existing appointment",
			zap.Int64("appointment_id", existing.ID),
			zap.Int64("user_id", appt.UserID),
		)
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check duplicate booking: %w", err)
	}

	// Пересечение с нефинальными записями
	var conflict bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE provider_id = $1
			  AND status IN ('scheduled', 'confirmed')
			  AND start_time < $3
			  AND end_time > $2
		)
	`, appt.ProviderID, appt.StartTime, appt.EndTime).Scan(&conflict)
	if err != nil {
		return nil, fmt.Errorf("check appointment overlap: %w", err)
	}
	if conflict {
		return nil, ErrOverlap
	}

	// Пересечение с перерывами поставщика
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM time_off_periods
			WHERE provider_id = $1
			  AND start_time < $3
			  AND end_time > $2
		)
	`, appt.ProviderID, appt.StartTime, appt.EndTime).Scan(&conflict)
	if err != nil {
		return nil, fmt.Errorf("check time off overlap: %w", err)
	}
	if conflict {
		return nil, ErrOverlap
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO appointments (user_id, provider_id, start_time, end_time, status, service_description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`,
		appt.UserID,
		appt.ProviderID,
		appt.StartTime,
		appt.EndTime,
		appt.Status,
		appt.ServiceDescription,
	).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
			return nil, ErrOverlap
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return appt, nil
}

// UpdateStatus обновляет статус записи и возвращает обновлённую запись
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + appointmentColumns

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	return appt, nil
}

// CompletePast переводит нефинальные записи с истёкшим концом в completed
func (r *AppointmentRepository) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE appointments
		SET status = 'completed', updated_at = now()
		WHERE status IN ('scheduled', 'confirmed')
		  AND end_time <= $1
	`

	tag, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("complete past appointments: %w", err)
	}

	return tag.RowsAffected(), nil
}
