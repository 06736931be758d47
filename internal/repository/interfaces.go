package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
)

// Интерфейсы хранилища, потребляемые слоем сервисов.
// Реализации на pgx находятся в этом же пакете; тесты сервисов
// используют in-memory реализации.

// ProviderStore читает поставщиков услуг
type ProviderStore interface {
	GetByID(ctx context.Context, id int64) (*model.Provider, error)
	List(ctx context.Context) ([]*model.Provider, error)
}

// RuleStore управляет еженедельными правилами доступности
type RuleStore interface {
	Create(ctx context.Context, rule *model.AvailabilityRule) error
	GetByID(ctx context.Context, id int64) (*model.AvailabilityRule, error)
	GetActiveByProvider(ctx context.Context, providerID int64) ([]*model.AvailabilityRule, error)
	Deactivate(ctx context.Context, id int64) error
}

// TimeOffStore управляет перерывами поставщиков
type TimeOffStore interface {
	Create(ctx context.Context, period *model.TimeOffPeriod) error
	GetOverlapping(ctx context.Context, providerID int64, from, to time.Time) ([]*model.TimeOffPeriod, error)
}

// AppointmentStore управляет записями. CreateIfFree — единственная
// точка создания записи: атомарная проверка-и-вставка против текущего
// состояния поставщика.
type AppointmentStore interface {
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	GetByUser(ctx context.Context, userID int64) ([]*model.Appointment, error)
	GetByProvider(ctx context.Context, providerID int64) ([]*model.Appointment, error)

	// GetActiveOverlapping возвращает нефинальные записи поставщика,
	// пересекающиеся с окном [from, to)
	GetActiveOverlapping(ctx context.Context, providerID int64, from, to time.Time) ([]*model.Appointment, error)

	// CreateIfFree атомарно проверяет интервал против текущих
	// нефинальных записей и перерывов и вставляет запись.
	// Возвращает ErrOverlap при конфликте и существующую запись при
	// повторной идентичной заявке (идемпотентность коммита).
	CreateIfFree(ctx context.Context, appt *model.Appointment) (*model.Appointment, error)

	UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error)

	// CompletePast переводит нефинальные записи с истёкшим концом в completed
	CompletePast(ctx context.Context, now time.Time) (int64, error)
}

// PreferenceStore читает предпочтения пользователей (только чтение)
type PreferenceStore interface {
	// GetByUserID возвращает (nil, nil), если предпочтения не заданы
	GetByUserID(ctx context.Context, userID int64) (*model.UserPreference, error)
}

// UserStore читает пользователей
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
