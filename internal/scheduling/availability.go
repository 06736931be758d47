package scheduling

import (
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
)

// ResolveDay вычисляет открытые интервалы приёма поставщика на дату
// из его еженедельных правил. Выбираются активные правила на день недели
// даты, чьё окно действия (если задано) содержит дату; пересекающиеся
// и смежные правила объединяются.
func ResolveDay(rules []*model.AvailabilityRule, date time.Time) []Interval {
	var open []Interval
	for _, rule := range rules {
		if rule == nil || !rule.AppliesTo(date) {
			continue
		}
		if rule.StartMinute >= rule.EndMinute {
			continue
		}
		open = append(open, Interval{
			Start: minuteOfDay(date, rule.StartMinute),
			End:   minuteOfDay(date, rule.EndMinute),
		})
	}
	return MergeIntervals(open)
}

// ExclusionSet собирает исключения поставщика (перерывы и нефинальные
// записи) в единый список интервалов. Записи и перерывы, начинающиеся
// накануне или заканчивающиеся на следующий день, учитываются целиком:
// вычитание само обрежет их по границам открытых интервалов.
func ExclusionSet(timeOff []*model.TimeOffPeriod, appointments []*model.Appointment) []Interval {
	var exclusions []Interval
	for _, off := range timeOff {
		if off == nil {
			continue
		}
		exclusions = append(exclusions, Interval{Start: off.StartTime, End: off.EndTime})
	}
	for _, appt := range appointments {
		if appt == nil || appt.Status.IsTerminal() {
			continue
		}
		exclusions = append(exclusions, Interval{Start: appt.StartTime, End: appt.EndTime})
	}
	return exclusions
}

// minuteOfDay возвращает момент времени на дату date, соответствующий
// минуте дня minute (в часовом поясе даты)
func minuteOfDay(date time.Time, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minute/60, minute%60, 0, 0, date.Location())
}
