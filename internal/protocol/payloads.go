package protocol

import (
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/scheduling"
)

// DateLayout — формат дат в сообщениях протокола
const DateLayout = "2006-01-02"

// Коды ошибок в ответах протокола
const (
	FailureCodeInvalidArgument = "INVALID_ARGUMENT"
	FailureCodeNotFound        = "NOT_FOUND"
	FailureCodeStorage         = "STORAGE_FAILURE"
)

// RequestAppointmentPayload — запрос слотов (REQUESTED)
type RequestAppointmentPayload struct {
	UserID          int64   `json:"user_id,omitempty"`
	ProviderIDs     []int64 `json:"provider_ids"`
	TargetDate      string  `json:"target_date"` // DateLayout
	DurationMinutes int     `json:"duration_minutes"`
}

// OfferSlotsPayload — предложение слотов (OFFERED).
// Пустой список слотов — валидный терминальный исход
type OfferSlotsPayload struct {
	Slots []scheduling.Slot `json:"slots"`
}

// ConfirmSlotPayload — выбор конкретного слота (SELECTED).
// Тройка (provider, start, end) перепроверяется по текущему состоянию
// независимо от того, предлагался ли слот ранее
type ConfirmSlotPayload struct {
	UserID             int64     `json:"user_id"`
	ProviderID         int64     `json:"provider_id"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	ServiceDescription string    `json:"service_description,omitempty"`
}

// AppointmentPayload — подтверждённая или изменённая запись
type AppointmentPayload struct {
	Appointment *model.Appointment `json:"appointment"`
	Reason      string             `json:"reason,omitempty"`
}

// FailurePayload — отказ с причиной (REJECTED и прочие ошибки)
type FailurePayload struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}
