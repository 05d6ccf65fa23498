package api

import (
	"net/http"
	"time"

	"github.com/mark31d/OlympusAirDiary/internal/diary"
	"github.com/mark31d/OlympusAirDiary/internal/models"
	"github.com/mark31d/OlympusAirDiary/internal/views"
)

type CalendarHandler struct {
	store *diary.Store
	now   func() time.Time
}

func NewCalendarHandler(store *diary.Store, now func() time.Time) *CalendarHandler {
	if now == nil {
		now = time.Now
	}
	return &CalendarHandler{store: store, now: now}
}

// Month handles GET /calendar?month=YYYY-MM&day=YYYY-MM-DD. Month defaults to
// the current one; day selects the record list.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	ref := h.now()
	if m := r.URL.Query().Get("month"); m != "" {
		t, err := views.ParseMonth(m)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be formatted YYYY-MM")
			return
		}
		ref = t
	}

	day := r.URL.Query().Get("day")
	if day != "" && !isISODate(day) {
		writeError(w, http.StatusBadRequest, "day must be an ISO date")
		return
	}

	records := h.store.Memories()
	grid := views.MonthGrid(ref)
	index := views.MonthIndex(records, grid.Year, grid.Month)

	rows := grid.Rows()
	weeks := make([][]models.CalendarCell, len(rows))
	for i, row := range rows {
		week := make([]models.CalendarCell, len(row))
		for j, c := range row {
			if c.Blank {
				week[j] = models.CalendarCell{Blank: true}
				continue
			}
			week[j] = models.CalendarCell{Day: c.Day, Date: c.Key, HasMemory: index.Has(c.Key)}
		}
		weeks[i] = week
	}

	resp := models.CalendarResponse{
		Title: grid.Title,
		Month: ref.Format(views.MonthLayout),
		Prev:  views.ShiftMonth(ref, -1).Format(views.MonthLayout),
		Next:  views.ShiftMonth(ref, 1).Format(views.MonthLayout),
		Weeks: weeks,
		Days:  index.Days,
	}
	if day != "" {
		resp.SelectedDay = views.DateKey(day)
		resp.Selected = views.DayList(records, day)
	}

	writeJSON(w, http.StatusOK, resp)
}
