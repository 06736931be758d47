package model

import "time"

// Provider представляет поставщика услуг, к которому записываются пользователи
type Provider struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ServiceType string    `json:"service_type"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
