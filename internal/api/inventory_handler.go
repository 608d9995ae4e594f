package api

import (
	"context"
	"net/http"
	"strings"

	"dukani-be/internal/inventory"
	"dukani-be/internal/utils"

	"github.com/gorilla/mux"
)

type InventoryHandler struct {
	inventory inventory.Service
}

func NewInventoryHandler(svc inventory.Service) *InventoryHandler {
	return &InventoryHandler{inventory: svc}
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	level, err := h.inventory.Get(r.Context(), mux.Vars(r)["productId"])
	if err != nil {
		respondError(r, w, "inventory.get", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, level)
}

// GetMany answers ?ids=a,b,c with a productID-keyed map; products with no
// stock row are simply absent.
func (h *InventoryHandler) GetMany(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("ids"))
	if raw == "" {
		utils.WriteJSONError(w, "ids query parameter is required", http.StatusBadRequest)
		return
	}

	levels, err := h.inventory.GetMany(r.Context(), strings.Split(raw, ","))
	if err != nil {
		respondError(r, w, "inventory.get_many", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, levels)
}

func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var input inventory.AdjustInput
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	level, err := h.inventory.Adjust(r.Context(), input)
	if err != nil {
		respondError(r, w, "inventory.adjust", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, level)
}

type holdPayload struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// Reserve places a manual hold on stock outside the checkout flow, for
// phone orders and stock put aside at the counter.
func (h *InventoryHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	h.hold(w, r, "inventory.reserve", h.inventory.Reserve)
}

// Release frees a manual hold.
func (h *InventoryHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.hold(w, r, "inventory.release", h.inventory.Release)
}

// Commit turns a hold into an outbound shipment: reserved and in_stock
// both decrease.
func (h *InventoryHandler) Commit(w http.ResponseWriter, r *http.Request) {
	h.hold(w, r, "inventory.commit", h.inventory.Commit)
}

func (h *InventoryHandler) hold(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	op func(ctx context.Context, productID string, qty int) error,
) {
	var input holdPayload
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	productID := mux.Vars(r)["productId"]
	if err := op(r.Context(), productID, input.Quantity); err != nil {
		respondError(r, w, operation, err)
		return
	}

	level, err := h.inventory.Get(r.Context(), productID)
	if err != nil {
		respondError(r, w, operation, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, level)
}
