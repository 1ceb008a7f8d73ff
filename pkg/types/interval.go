package types

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidInterval возвращается при пустом, перевернутом или переходящем через полночь интервале
var ErrInvalidInterval = errors.New("types: invalid interval")

// Interval полуоткрытый интервал [start, end) в минутах от начала одних суток.
// Значение неизменяемое, инвариант 0 <= start < end <= 1440 проверяется при создании.
type Interval struct {
	start int
	end   int
}

// NewInterval создает интервал из минут от начала суток
func NewInterval(start, end int) (Interval, error) {
	if start < 0 || end > MinutesPerDay {
		return Interval{}, fmt.Errorf("%w: [%d, %d) is out of day bounds", ErrInvalidInterval, start, end)
	}
	if end <= start {
		return Interval{}, fmt.Errorf("%w: end %d must be after start %d", ErrInvalidInterval, end, start)
	}
	return Interval{start: start, end: end}, nil
}

// MustInterval как NewInterval, но паникует на некорректных границах
func MustInterval(start, end int) Interval {
	interval, err := NewInterval(start, end)
	if err != nil {
		panic(err)
	}
	return interval
}

// NewIntervalFromTimes создает интервал из пары HH:MM
func NewIntervalFromTimes(start, end TimeString) (Interval, error) {
	startMinutes, err := start.Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("%w: start: %v", ErrInvalidInterval, err)
	}
	endMinutes, err := end.Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("%w: end: %v", ErrInvalidInterval, err)
	}
	return NewInterval(startMinutes, endMinutes)
}

func (i Interval) Start() int {
	return i.start
}

func (i Interval) End() int {
	return i.end
}

// Minutes длительность интервала
func (i Interval) Minutes() int {
	return i.end - i.start
}

// IsZero интервал не инициализирован
func (i Interval) IsZero() bool {
	return i.start == 0 && i.end == 0
}

func (i Interval) StartTime() TimeString {
	return formatMinutes(i.start)
}

func (i Interval) EndTime() TimeString {
	return formatMinutes(i.end)
}

// Contains other целиком лежит внутри i
func (i Interval) Contains(other Interval) bool {
	return i.start <= other.start && other.end <= i.end
}

// Shift сдвигает интервал на delta минут
func (i Interval) Shift(delta int) (Interval, error) {
	return NewInterval(i.start+delta, i.end+delta)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.StartTime(), i.EndTime())
}

// Overlaps интервалы пересекаются. Соприкасающиеся интервалы ([9:00,10:00) и [10:00,11:00)) не пересекаются.
func Overlaps(a, b Interval) bool {
	return a.start < b.end && b.start < a.end
}

// Intersect возвращает пересечение интервалов, false если пересечения нет
func Intersect(a, b Interval) (Interval, bool) {
	start := max(a.start, b.start)
	end := min(a.end, b.end)
	if start >= end {
		return Interval{}, false
	}
	return Interval{start: start, end: end}, true
}

// Subtract вычитает из base все cuts. Результат отсортирован, соседние куски склеены.
func Subtract(base Interval, cuts []Interval) []Interval {
	return SubtractAll([]Interval{base}, cuts)
}

// SubtractAll вычитает cuts из объединения интервалов set
func SubtractAll(set []Interval, cuts []Interval) []Interval {
	result := Merge(set)
	for _, cut := range Merge(cuts) {
		next := make([]Interval, 0, len(result)+1)
		for _, piece := range result {
			if !Overlaps(piece, cut) {
				next = append(next, piece)
				continue
			}
			if piece.start < cut.start {
				next = append(next, Interval{start: piece.start, end: cut.start})
			}
			if cut.end < piece.end {
				next = append(next, Interval{start: cut.end, end: piece.end})
			}
		}
		result = next
	}
	return result
}

// Merge возвращает объединение интервалов: отсортированный список без пересечений и соприкосновений
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return []Interval{}
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].end < sorted[j].end
	})

	merged := []Interval{sorted[0]}
	for _, current := range sorted[1:] {
		last := &merged[len(merged)-1]
		if current.start <= last.end {
			if current.end > last.end {
				last.end = current.end
			}
			continue
		}
		merged = append(merged, current)
	}
	return merged
}

// Longest самый длинный интервал из списка (0, если список пуст)
func Longest(intervals []Interval) int {
	longest := 0
	for _, interval := range intervals {
		if interval.Minutes() > longest {
			longest = interval.Minutes()
		}
	}
	return longest
}
