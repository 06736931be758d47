package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AvailabilityRuleRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRuleRepository(pool *pgxpool.Pool) *AvailabilityRuleRepository {
	return &AvailabilityRuleRepository{pool: pool}
}

// Create создаёт новое правило доступности
func (r *AvailabilityRuleRepository) Create(ctx context.Context, rule *model.AvailabilityRule) error {
	query := `
		INSERT INTO availability_rules (provider_id, weekday, start_minute, end_minute, is_active, valid_from, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		rule.ProviderID,
		rule.Weekday,
		rule.StartMinute,
		rule.EndMinute,
		rule.IsActive,
		rule.ValidFrom,
		rule.ValidUntil,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create availability rule: %w", err)
	}

	return nil
}

// GetByID получает правило по ID
func (r *AvailabilityRuleRepository) GetByID(ctx context.Context, id int64) (*model.AvailabilityRule, error) {
	query := `
		SELECT id, provider_id, weekday, start_minute, end_minute, is_active, valid_from, valid_until, created_at, updated_at
		FROM availability_rules
		WHERE id = $1
	`

	rule := &model.AvailabilityRule{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rule.ID,
		&rule.ProviderID,
		&rule.Weekday,
		&rule.StartMinute,
		&rule.EndMinute,
		&rule.IsActive,
		&rule.ValidFrom,
		&rule.ValidUntil,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get availability rule by id: %w", err)
	}

	return rule, nil
}

// GetActiveByProvider получает все активные правила поставщика
func (r *AvailabilityRuleRepository) GetActiveByProvider(ctx context.Context, providerID int64) ([]*model.AvailabilityRule, error) {
	query := `
		SELECT id, provider_id, weekday, start_minute, end_minute, is_active, valid_from, valid_until, created_at, updated_at
		FROM availability_rules
		WHERE provider_id = $1 AND is_active = true
		ORDER BY weekday, start_minute
	`

	rows, err := r.pool.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("get availability rules by provider: %w", err)
	}
	defer rows.Close()

	var rules []*model.AvailabilityRule
	for rows.Next() {
		rule := &model.AvailabilityRule{}
		err := rows.Scan(
			&rule.ID,
			&rule.ProviderID,
			&rule.Weekday,
			&rule.StartMinute,
			&rule.EndMinute,
			&rule.IsActive,
			&rule.ValidFrom,
			&rule.ValidUntil,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan availability rule: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// Deactivate деактивирует правило. Правила не удаляются физически,
// чтобы не терять историю для прошедших записей.
func (r *AvailabilityRuleRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE availability_rules SET is_active = false, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate availability rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
