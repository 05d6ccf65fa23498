package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mark31d/OlympusAirDiary/internal/diary"
	"github.com/mark31d/OlympusAirDiary/internal/models"
	"github.com/mark31d/OlympusAirDiary/internal/views"
)

type MemoryHandler struct {
	store *diary.Store
}

func NewMemoryHandler(store *diary.Store) *MemoryHandler {
	return &MemoryHandler{store: store}
}

// List handles GET /memories. With ?category= it returns that category newest
// first; with ?sort=date every record newest first; otherwise store order.
func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.store.Memories()

	var out []models.Memory
	switch category := r.URL.Query().Get("category"); {
	case category != "":
		c := models.Category(category)
		if !c.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid category")
			return
		}
		out = views.ByCategory(all, c)
	case r.URL.Query().Get("sort") == "date":
		out = views.Recent(all)
	default:
		out = all
	}

	writeJSON(w, http.StatusOK, models.ListResponse{Memories: out, Total: len(out)})
}

// Create handles POST /memories
func (h *MemoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMemoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validateStruct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mem := h.store.AddMemory(req.Draft())
	writeJSON(w, http.StatusCreated, mem)
}

// Get handles GET /memories/{id}
func (h *MemoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	mem, ok := h.store.Memory(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "memory not found")
		return
	}
	writeJSON(w, http.StatusOK, mem)
}

// Update handles PATCH /memories/{id}
func (h *MemoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateMemoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validateUpdate(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mem, ok := h.store.UpdateMemory(id, req.Patch())
	if !ok {
		writeError(w, http.StatusNotFound, "memory not found")
		return
	}
	writeJSON(w, http.StatusOK, mem)
}

// Delete handles DELETE /memories/{id}. Deleting an unknown id succeeds so
// repeated deletes are harmless.
func (h *MemoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveMemory(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// Share handles GET /memories/{id}/share
func (h *MemoryHandler) Share(w http.ResponseWriter, r *http.Request) {
	mem, ok := h.store.Memory(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "memory not found")
		return
	}
	writeJSON(w, http.StatusOK, models.ShareResponse{
		Title:   mem.Title,
		Message: views.ShareText(mem),
	})
}

// ByDate handles GET /days/{date}
func (h *MemoryHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !isISODate(date) {
		writeError(w, http.StatusBadRequest, "date must be an ISO date")
		return
	}
	out := h.store.QueryByDate(date)
	writeJSON(w, http.StatusOK, models.ListResponse{Memories: out, Total: len(out)})
}
