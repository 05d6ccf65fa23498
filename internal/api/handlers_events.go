package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark31d/OlympusAirDiary/internal/diary"
	"github.com/mark31d/OlympusAirDiary/internal/models"
)

type EventsHandler struct {
	store  *diary.Store
	logger *slog.Logger
}

func NewEventsHandler(store *diary.Store, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{store: store, logger: logger}
}

// Stream handles GET /events as server-sent events. It sends the current
// snapshot, then one "snapshot" event per mutation. A slow client only ever
// receives the latest state.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("cannot clear write deadline", "error", err)
	}

	updates, unsubscribe := h.store.SubscribeLatest()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	current := h.store.Snapshot()
	if err := writeEvent(w, rc, current); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-updates:
			if snap.Version <= current.Version {
				continue
			}
			current = snap
			if err := writeEvent(w, rc, snap); err != nil {
				h.logger.Debug("event stream closed", "error", err)
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data); err != nil {
		return err
	}
	return rc.Flush()
}
