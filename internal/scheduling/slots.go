package scheduling

import (
	"sort"
	"time"
)

// Slot представляет кандидата на бронирование: интервал у конкретного
// поставщика. Слоты не сохраняются в базе — они вычисляются заново на
// каждый запрос и становятся записью только после подтверждения.
type Slot struct {
	ProviderID int64     `json:"provider_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Score      float64   `json:"score"`
	Reasons    []string  `json:"reasons,omitempty"`
}

// Interval возвращает интервал слота
func (s Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// GenerateSlots нарезает свободные интервалы на слоты длительностью ровно
// duration. Начала слотов выравниваются по сетке с шагом step (по минутам
// стенных часов); слот включается, только если его конец не выходит за
// границу интервала. Неполные "хвосты" отбрасываются.
// Для одинаковых входов результат детерминирован: по возрастанию начала.
func GenerateSlots(free []Interval, providerID int64, duration, step time.Duration) []Slot {
	if duration <= 0 {
		return nil
	}
	if step <= 0 {
		step = duration
	}

	var slots []Slot
	for _, iv := range free {
		if !iv.IsValid() {
			continue
		}
		for cur := alignUp(iv.Start, step); !cur.Add(duration).After(iv.End); cur = cur.Add(step) {
			slots = append(slots, Slot{
				ProviderID: providerID,
				Start:      cur,
				End:        cur.Add(duration),
			})
		}
	}

	SortSlots(slots)
	return slots
}

// SortSlots упорядочивает слоты по возрастанию начала, при равенстве —
// по идентификатору поставщика. Используется и при объединении выдач
// нескольких поставщиков в один список.
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].Start.Equal(slots[j].Start) {
			return slots[i].Start.Before(slots[j].Start)
		}
		return slots[i].ProviderID < slots[j].ProviderID
	})
}

// alignUp выравнивает t вверх до ближайшей отметки, кратной step
// от начала суток (шаг задаётся конфигурацией и делит час нацело)
func alignUp(t time.Time, step time.Duration) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	rem := t.Sub(midnight) % step
	if rem == 0 {
		return t
	}
	return t.Add(step - rem)
}
