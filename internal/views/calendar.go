package views

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark31d/OlympusAirDiary/internal/models"
)

// MonthLayout is the format of month parameters, e.g. "2025-01".
const MonthLayout = "2006-01"

// Index lists the days of one month that have at least one record.
type Index struct {
	Year  int
	Month time.Month
	Days  []string // ascending date keys
	set   map[string]struct{}
}

// Has reports whether dayKey has a record.
func (ix Index) Has(dayKey string) bool {
	_, ok := ix.set[DateKey(dayKey)]
	return ok
}

// MonthIndex collects the distinct date keys falling in year/month. Records
// whose dateISO has no valid date prefix are skipped.
func MonthIndex(records []models.Memory, year int, month time.Month) Index {
	prefix := fmt.Sprintf("%04d-%02d-", year, int(month))
	ix := Index{Year: year, Month: month, Days: []string{}, set: make(map[string]struct{})}
	for _, m := range records {
		key := DateKey(m.DateISO)
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if _, err := time.Parse(DateLayout, key); err != nil {
			continue
		}
		if _, ok := ix.set[key]; ok {
			continue
		}
		ix.set[key] = struct{}{}
		ix.Days = append(ix.Days, key)
	}
	sort.Strings(ix.Days)
	return ix
}

// Cell is one slot of a month grid. Blank cells precede the first day.
type Cell struct {
	Blank bool
	Day   int
	Date  time.Time
	Key   string
}

// Grid is a Monday-first month calendar laid out in 7 columns.
type Grid struct {
	Title string
	Year  int
	Month time.Month
	Cells []Cell
}

// Columns is the width of a Grid row.
const Columns = 7

// MonthGrid builds the grid for the month containing ref.
func MonthGrid(ref time.Time) Grid {
	loc := ref.Location()
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
	lead := (int(first.Weekday()) + 6) % 7
	days := first.AddDate(0, 1, -1).Day()

	cells := make([]Cell, 0, lead+days)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= days; d++ {
		date := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, loc)
		cells = append(cells, Cell{Day: d, Date: date, Key: date.Format(DateLayout)})
	}

	return Grid{
		Title: fmt.Sprintf("%s %d", first.Month(), first.Year()),
		Year:  first.Year(),
		Month: first.Month(),
		Cells: cells,
	}
}

// Rows splits the cells into rows of Columns. The last row may be short.
func (g Grid) Rows() [][]Cell {
	var rows [][]Cell
	for i := 0; i < len(g.Cells); i += Columns {
		end := min(i+Columns, len(g.Cells))
		rows = append(rows, g.Cells[i:end])
	}
	return rows
}

// ShiftMonth returns the first day of the month delta months from ref.
func ShiftMonth(ref time.Time, delta int) time.Time {
	return time.Date(ref.Year(), ref.Month()+time.Month(delta), 1, 0, 0, 0, 0, ref.Location())
}

// ParseMonth parses a MonthLayout value into the first day of that month.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return t, nil
}
