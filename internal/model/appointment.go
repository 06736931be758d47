package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusScheduled           AppointmentStatus = "scheduled"             // Создана, ждёт подтверждения
	AppointmentStatusConfirmed           AppointmentStatus = "confirmed"             // Подтверждена
	AppointmentStatusCancelledByUser     AppointmentStatus = "cancelled_by_user"     // Отменена пользователем
	AppointmentStatusCancelledByProvider AppointmentStatus = "cancelled_by_provider" // Отменена поставщиком
	AppointmentStatusCompleted           AppointmentStatus = "completed"             // Завершена
)

// IsTerminal проверяет, является ли статус финальным.
// Нефинальные записи ({scheduled, confirmed}) участвуют в проверке пересечений.
func (s AppointmentStatus) IsTerminal() bool {
	return s != AppointmentStatusScheduled && s != AppointmentStatusConfirmed
}

// IsCancelled проверяет, отменена ли запись
func (s AppointmentStatus) IsCancelled() bool {
	return s == AppointmentStatusCancelledByUser || s == AppointmentStatusCancelledByProvider
}

// Appointment представляет подтверждённую запись пользователя к поставщику.
// Центральный инвариант: у одного поставщика не может быть двух нефинальных
// записей с пересекающимися интервалами [StartTime, EndTime).
type Appointment struct {
	ID                 int64             `json:"id"`
	UserID             int64             `json:"user_id"`
	ProviderID         int64             `json:"provider_id"`
	StartTime          time.Time         `json:"start_time"`
	EndTime            time.Time         `json:"end_time"`
	Status             AppointmentStatus `json:"status"`
	ServiceDescription string            `json:"service_description,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// CancelActor определяет, кто инициировал отмену записи
type CancelActor string

const (
	CancelActorUser     CancelActor = "user"
	CancelActorProvider CancelActor = "provider"
)

// CancelledStatus возвращает статус отмены для данного актора
func (a CancelActor) CancelledStatus() AppointmentStatus {
	if a == CancelActorProvider {
		return AppointmentStatusCancelledByProvider
	}
	return AppointmentStatusCancelledByUser
}
