package scheduling

import (
	"sort"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
)

// Веса критериев ранжирования. Политика фиксированная: взвешенная
// сумма, ограниченная сверху единицей.
const (
	weightProvider = 0.5 // слот у предпочитаемого поставщика
	weightWindow   = 0.3 // начало слота в предпочитаемом окне времени
	weightWeekday  = 0.2 // день недели из предпочитаемых
)

const (
	ReasonPreferredProvider = "preferred provider"
	ReasonPreferredWindow   = "preferred time window"
	ReasonPreferredWeekday  = "preferred day of week"
)

// RankSlots оценивает слоты по предпочтениям пользователя и сортирует
// по убыванию оценки. Сортировка стабильная: при равных оценках
// сохраняется исходный порядок (по возрастанию начала, затем по
// идентификатору поставщика). Отсутствие предпочтений (pref == nil) —
// допустимый вход: все оценки нулевые, порядок не меняется.
func RankSlots(slots []Slot, pref *model.UserPreference) []Slot {
	ranked := make([]Slot, len(slots))
	copy(ranked, slots)

	if pref == nil {
		return ranked
	}

	for i := range ranked {
		ranked[i].Score, ranked[i].Reasons = scoreSlot(ranked[i], pref)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// scoreSlot вычисляет оценку слота в диапазоне [0, 1] и причины,
// по которым начислены баллы
func scoreSlot(slot Slot, pref *model.UserPreference) (float64, []string) {
	var score float64
	var reasons []string

	weekday := int(slot.Start.Weekday())
	minute := slot.Start.Hour()*60 + slot.Start.Minute()

	if pref.PrefersProvider(slot.ProviderID) {
		score += weightProvider
		reasons = append(reasons, ReasonPreferredProvider)
	}

	for _, w := range pref.PreferredWindows {
		if w.ContainsMinute(weekday, minute) {
			score += weightWindow
			reasons = append(reasons, ReasonPreferredWindow)
			break
		}
	}

	if pref.PrefersWeekday(weekday) {
		score += weightWeekday
		reasons = append(reasons, ReasonPreferredWeekday)
	}

	if score > 1.0 {
		score = 1.0
	}

	return score, reasons
}
