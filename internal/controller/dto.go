package controller

import (
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
)

// DTO HTTP-слоя. Формат дат в query-параметрах — YYYY-MM-DD,
// временные метки в телах — RFC 3339.

const dateLayout = "2006-01-02"

type bookAppointmentRequest struct {
	UserID             int64     `json:"user_id" binding:"required"`
	ProviderID         int64     `json:"provider_id" binding:"required"`
	StartTime          time.Time `json:"start_time" binding:"required"`
	EndTime            time.Time `json:"end_time" binding:"required"`
	ServiceDescription string    `json:"service_description"`
}

type cancelAppointmentRequest struct {
	Actor model.CancelActor `json:"actor" binding:"required"`
}

type registerUserRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name"`
}

type addRuleRequest struct {
	Weekday     int    `json:"weekday"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute" binding:"required"`
	ValidFrom   string `json:"valid_from"`  // YYYY-MM-DD, опционально
	ValidUntil  string `json:"valid_until"` // YYYY-MM-DD, опционально
}

type addTimeOffRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Reason    string    `json:"reason"`
}

type timeOffResponse struct {
	Period   *model.TimeOffPeriod `json:"period"`
	Affected []*model.Appointment `json:"affected_appointments"`
}

type errorResponse struct {
	Error string `json:"error"`
}
