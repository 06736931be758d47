package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TimeOffRepository struct {
	pool *pgxpool.Pool
}

func NewTimeOffRepository(pool *pgxpool.Pool) *TimeOffRepository {
	return &TimeOffRepository{pool: pool}
}

// Create создаёт новый перерыв поставщика
func (r *TimeOffRepository) Create(ctx context.Context, period *model.TimeOffPeriod) error {
	query := `
		INSERT INTO time_off_periods (provider_id, start_time, end_time, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		period.ProviderID,
		period.StartTime,
		period.EndTime,
		period.Reason,
	).Scan(&period.ID, &period.CreatedAt)

	if err != nil {
		return fmt.Errorf("create time off period: %w", err)
	}

	return nil
}

// GetOverlapping получает перерывы поставщика, пересекающиеся с окном
// [from, to). Захватывает и перерывы, начавшиеся до окна
func (r *TimeOffRepository) GetOverlapping(ctx context.Context, providerID int64, from, to time.Time) ([]*model.TimeOffPeriod, error) {
	query := `
		SELECT id, provider_id, start_time, end_time, reason, created_at
		FROM time_off_periods
		WHERE provider_id = $1
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time
	`

	rows, err := r.pool.Query(ctx, query, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get time off periods: %w", err)
	}
	defer rows.Close()

	var periods []*model.TimeOffPeriod
	for rows.Next() {
		period := &model.TimeOffPeriod{}
		err := rows.Scan(
			&period.ID,
			&period.ProviderID,
			&period.StartTime,
			&period.EndTime,
			&period.Reason,
			&period.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan time off period: %w", err)
		}
		periods = append(periods, period)
	}

	return periods, nil
}
