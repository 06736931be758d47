package model

import "time"

// TimeOffPeriod представляет разовый перерыв в расписании поставщика,
// накладываемый поверх повторяющихся правил
type TimeOffPeriod struct {
	ID         int64     `json:"id"`
	ProviderID int64     `json:"provider_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
