// Package views computes read-only projections over diary records. Nothing
// here mutates its input or keeps state between calls, except Live which
// recomputes on every store notification.
package views

import (
	"slices"
	"strings"

	"github.com/mark31d/OlympusAirDiary/internal/models"
)

// DateLayout is the date-only prefix format of dateISO values.
const DateLayout = "2006-01-02"

// DateKey truncates a dateISO value to its date-only prefix.
func DateKey(dateISO string) string {
	if len(dateISO) > len(DateLayout) {
		return dateISO[:len(DateLayout)]
	}
	return dateISO
}

// OnDate returns the records whose date key equals the date key of dateISO,
// preserving input order.
func OnDate(records []models.Memory, dateISO string) []models.Memory {
	key := DateKey(dateISO)
	out := []models.Memory{}
	for _, m := range records {
		if DateKey(m.DateISO) == key {
			out = append(out, m)
		}
	}
	return out
}

// SortByDateDesc returns a copy of records ordered by dateISO, newest first.
// Equal dates keep their input order.
func SortByDateDesc(records []models.Memory) []models.Memory {
	out := slices.Clone(records)
	if out == nil {
		out = []models.Memory{}
	}
	slices.SortStableFunc(out, func(a, b models.Memory) int {
		return strings.Compare(b.DateISO, a.DateISO)
	})
	return out
}

// ByCategory filters by category and sorts newest first.
func ByCategory(records []models.Memory, category models.Category) []models.Memory {
	var filtered []models.Memory
	for _, m := range records {
		if m.Category == category {
			filtered = append(filtered, m)
		}
	}
	return SortByDateDesc(filtered)
}

// Recent returns every record sorted newest first.
func Recent(records []models.Memory) []models.Memory {
	return SortByDateDesc(records)
}

// DayList returns the records on dayKey sorted newest first.
func DayList(records []models.Memory, dayKey string) []models.Memory {
	return SortByDateDesc(OnDate(records, dayKey))
}
