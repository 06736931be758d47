package scheduling

import (
	"sort"
	"time"
)

// Interval представляет полуоткрытый интервал времени [Start, End)
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsValid проверяет, что интервал непустой
func (iv Interval) IsValid() bool {
	return iv.End.After(iv.Start)
}

// Duration возвращает длительность интервала
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps проверяет пересечение полуоткрытых интервалов [Start, End)
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains проверяет, что other целиком лежит внутри интервала
func (iv Interval) Contains(other Interval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}

// MergeIntervals объединяет пересекающиеся и смежные интервалы.
// Результат отсортирован по началу и не содержит пересечений.
// Пустые и перевёрнутые интервалы отбрасываются.
func MergeIntervals(intervals []Interval) []Interval {
	var valid []Interval
	for _, iv := range intervals {
		if iv.IsValid() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := []Interval{valid[0]}
	for _, iv := range valid[1:] {
		last := &merged[len(merged)-1]
		// Смежные интервалы (End == Start) тоже склеиваются
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}

	return merged
}

// Subtract вычитает множество исключений из одного интервала.
// Интервал разрезается на каждой границе исключения; возвращаются
// оставшиеся свободные под-интервалы в порядке возрастания.
func Subtract(open Interval, exclusions []Interval) []Interval {
	if !open.IsValid() {
		return nil
	}

	// Сначала нормализуем исключения: результат вычитания не зависит
	// от порядка их применения.
	merged := MergeIntervals(exclusions)

	var free []Interval
	cursor := open.Start

	for _, excl := range merged {
		if !excl.Overlaps(open) {
			continue
		}
		if excl.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: excl.Start})
		}
		if excl.End.After(cursor) {
			cursor = excl.End
		}
	}

	if cursor.Before(open.End) {
		free = append(free, Interval{Start: cursor, End: open.End})
	}

	return free
}

// SubtractAll вычитает объединение исключений из каждого открытого интервала
func SubtractAll(open []Interval, exclusions []Interval) []Interval {
	var free []Interval
	for _, iv := range open {
		free = append(free, Subtract(iv, exclusions)...)
	}
	return free
}
