package api

import (
	"context"
	"net/http"
	"time"

	"github.com/mark31d/OlympusAirDiary/internal/diary"
	"github.com/mark31d/OlympusAirDiary/internal/models"
	"github.com/mark31d/OlympusAirDiary/internal/store"
)

type HealthHandler struct {
	backend store.Backend
	store   *diary.Store
}

func NewHealthHandler(backend store.Backend, s *diary.Store) *HealthHandler {
	return &HealthHandler{backend: backend, store: s}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status: "ok",
		Ready:  h.store.Ready(),
	}

	// Check durable storage
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.backend.Ping(ctx); err != nil {
		resp.Backend = models.ServiceCheck{Status: "error", Message: h.backend.Name() + ": " + err.Error()}
		resp.Status = "degraded"
	} else {
		resp.Backend = models.ServiceCheck{Status: "ok", Message: h.backend.Name()}
	}

	if !resp.Ready {
		resp.Status = "starting"
	}
	resp.MemoryCount = len(h.store.Memories())

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
