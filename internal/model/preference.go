package model

// PreferenceWindow представляет предпочитаемое окно времени
// для конкретных дней недели
type PreferenceWindow struct {
	StartMinute int   `json:"start_minute"` // минута дня, 0-1439
	EndMinute   int   `json:"end_minute"`
	Weekdays    []int `json:"weekdays"` // 0 = Sunday, 6 = Saturday
}

// ContainsMinute проверяет, попадает ли минута дня в окно для данного дня недели
func (w PreferenceWindow) ContainsMinute(weekday, minute int) bool {
	found := false
	for _, d := range w.Weekdays {
		if d == weekday {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	return minute >= w.StartMinute && minute < w.EndMinute
}

// UserPreference представляет предпочтения пользователя для ранжирования слотов.
// Заполняется внешними компонентами, для движка — только чтение.
type UserPreference struct {
	UserID                 int64              `json:"user_id"`
	PreferredProviderIDs   []int64            `json:"preferred_provider_ids"`
	PreferredWindows       []PreferenceWindow `json:"preferred_windows"`
	PreferredWeekdays      []int              `json:"preferred_weekdays"`
	DefaultDurationMinutes int                `json:"default_duration_minutes"`
}

// PrefersProvider проверяет, входит ли поставщик в список предпочитаемых
func (p *UserPreference) PrefersProvider(providerID int64) bool {
	for _, id := range p.PreferredProviderIDs {
		if id == providerID {
			return true
		}
	}
	return false
}

// PrefersWeekday проверяет, входит ли день недели в список предпочитаемых
func (p *UserPreference) PrefersWeekday(weekday int) bool {
	for _, d := range p.PreferredWeekdays {
		if d == weekday {
			return true
		}
	}
	return false
}
