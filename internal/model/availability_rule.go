package model

import "time"

// AvailabilityRule представляет повторяющееся еженедельное окно приёма
type AvailabilityRule struct {
	ID          int64      `json:"id"`
	ProviderID  int64      `json:"provider_id"`
	Weekday     int        `json:"weekday"`      // 0 = Sunday, 6 = Saturday
	StartMinute int        `json:"start_minute"` // минута дня, 0-1439
	EndMinute   int        `json:"end_minute"`   // минута дня, start < end
	IsActive    bool       `json:"is_active"`
	ValidFrom   *time.Time `json:"valid_from"`  // nil = без нижней границы
	ValidUntil  *time.Time `json:"valid_until"` // nil = без верхней границы
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AppliesTo проверяет, действует ли правило на указанную дату
func (r *AvailabilityRule) AppliesTo(date time.Time) bool {
	if !r.IsActive {
		return false
	}
	if int(date.Weekday()) != r.Weekday {
		return false
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	if r.ValidFrom != nil && day.Before(truncateToDay(*r.ValidFrom)) {
		return false
	}
	if r.ValidUntil != nil && day.After(truncateToDay(*r.ValidUntil)) {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
