package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreferenceRepository читает предпочтения пользователей. Запись
// предпочтений выполняют внешние компоненты, движку нужен только Get.
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// GetByUserID получает предпочтения пользователя.
// Отсутствие предпочтений — не ошибка: возвращается (nil, nil)
func (r *PreferenceRepository) GetByUserID(ctx context.Context, userID int64) (*model.UserPreference, error) {
	query := `
		SELECT user_id, preferred_provider_ids, preferred_windows, preferred_weekdays, default_duration_minutes
		FROM user_preferences
		WHERE user_id = $1
	`

	pref := &model.UserPreference{}
	var providerIDs, windows, weekdays []byte

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&pref.UserID,
		&providerIDs,
		&windows,
		&weekdays,
		&pref.DefaultDurationMinutes,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user preference: %w", err)
	}

	if err := json.Unmarshal(providerIDs, &pref.PreferredProviderIDs); err != nil {
		return nil, fmt.Errorf("unmarshal preferred providers: %w", err)
	}
	if err := json.Unmarshal(windows, &pref.PreferredWindows); err != nil {
		return nil, fmt.Errorf("unmarshal preferred windows: %w", err)
	}
	if err := json.Unmarshal(weekdays, &pref.PreferredWeekdays); err != nil {
		return nil, fmt.Errorf("unmarshal preferred weekdays: %w", err)
	}

	return pref, nil
}
