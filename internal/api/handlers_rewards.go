package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mark31d/OlympusAirDiary/internal/diary"
	"github.com/mark31d/OlympusAirDiary/internal/models"
	"github.com/mark31d/OlympusAirDiary/internal/tips"
)

type RewardsHandler struct {
	store   *diary.Store
	catalog *tips.Catalog
}

func NewRewardsHandler(store *diary.Store, catalog *tips.Catalog) *RewardsHandler {
	return &RewardsHandler{store: store, catalog: catalog}
}

// Get handles GET /rewards
func (h *RewardsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger())
}

// AddPoints handles POST /rewards/points
func (h *RewardsHandler) AddPoints(w http.ResponseWriter, r *http.Request) {
	var req models.AmountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validateStruct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.store.AddPoints(req.Amount)
	writeJSON(w, http.StatusOK, h.ledger())
}

// Spend handles POST /rewards/spend. An uncovered amount answers 409.
func (h *RewardsHandler) Spend(w http.ResponseWriter, r *http.Request) {
	var req models.AmountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validateStruct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	balance, ok := h.store.Spend(req.Amount)
	resp := models.PurchaseResponse{Success: ok, Cost: req.Amount, Points: balance}
	if !ok {
		writeJSON(w, http.StatusConflict, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListTips handles GET /tips
func (h *RewardsHandler) ListTips(w http.ResponseWriter, r *http.Request) {
	all := h.catalog.All()
	out := make([]models.TipView, 0, len(all))
	for _, t := range all {
		out = append(out, h.tipView(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTip handles GET /tips/{id}. Ids outside the catalog still report their
// purchase state.
func (h *RewardsHandler) GetTip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, ok := h.catalog.Get(id)
	if !ok {
		t = tips.Tip{ID: id}
	}
	writeJSON(w, http.StatusOK, h.tipView(t))
}

// PurchaseTip handles POST /tips/{id}/purchase. Catalog tips use their listed
// cost; other ids must carry one in the body.
func (h *RewardsHandler) PurchaseTip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.PurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validateStruct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var cost int
	if t, ok := h.catalog.Get(id); ok {
		cost = t.Cost
	} else if req.Cost != nil {
		cost = *req.Cost
	} else {
		writeError(w, http.StatusBadRequest, "cost is required for tips outside the catalog")
		return
	}

	balance, ok := h.store.Purchase(id, cost)
	resp := models.PurchaseResponse{Success: ok, TipID: id, Cost: cost, Points: balance}
	if !ok {
		writeJSON(w, http.StatusConflict, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RewardsHandler) ledger() models.RewardsResponse {
	snap := h.store.Snapshot()
	return models.RewardsResponse{Points: snap.Points, PurchasedTips: snap.PurchasedTips}
}

func (h *RewardsHandler) tipView(t tips.Tip) models.TipView {
	return models.TipView{
		ID:        t.ID,
		Title:     t.Title,
		Cost:      t.Cost,
		Body:      t.Body,
		Purchased: h.store.IsTipPurchased(t.ID),
	}
}
