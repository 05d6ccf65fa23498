package api

import (
	"net/http"

	"github.com/mark31d/OlympusAirDiary/internal/views"
)

type SummaryHandler struct {
	live *views.Live[views.Summary]
}

// NewSummaryHandler follows src so that reads never walk the record list.
func NewSummaryHandler(src views.Source) *SummaryHandler {
	return &SummaryHandler{live: views.NewLive(src, views.Summarize)}
}

// Get handles GET /summary
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.live.Value())
}
