package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProviderRepository struct {
	*base.Repository
}

func NewProviderRepository(pool *pgxpool.Pool) *ProviderRepository {
	return &ProviderRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт нового поставщика
func (r *ProviderRepository) Create(ctx context.Context, provider *model.Provider) error {
	query := `
		INSERT INTO providers (name, service_type, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		provider.Name,
		provider.ServiceType,
		provider.IsActive,
	).Scan(&provider.ID, &provider.CreatedAt)

	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	return nil
}

// GetByID получает поставщика по ID
func (r *ProviderRepository) GetByID(ctx context.Context, id int64) (*model.Provider, error) {
	query := `
		SELECT id, name, service_type, is_active, created_at
		FROM providers
		WHERE id = $1
	`

	var provider model.Provider
	err := r.QueryRow(ctx, query, id).Scan(
		&provider.ID,
		&provider.Name,
		&provider.ServiceType,
		&provider.IsActive,
		&provider.CreatedAt,
	)

	if base.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get provider by id: %w", err)
	}

	return &provider, nil
}

// List получает всех активных поставщиков
func (r *ProviderRepository) List(ctx context.Context) ([]*model.Provider, error) {
	query := `
		SELECT id, name, service_type, is_active, created_at
		FROM providers
		WHERE is_active = true
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	var providers []*model.Provider
	for rows.Next() {
		var provider model.Provider
		err := rows.Scan(
			&provider.ID,
			&provider.Name,
			&provider.ServiceType,
			&provider.IsActive,
			&provider.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, &provider)
	}

	return providers, nil
}
