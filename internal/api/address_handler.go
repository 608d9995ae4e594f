package api

import (
	"net/http"

	"dukani-be/internal/address"
	"dukani-be/internal/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AddressHandler struct {
	addresses address.Service
}

func NewAddressHandler(addresses address.Service) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

func addressIDFromPath(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.addresses.List(r.Context())
	if err != nil {
		respondError(r, w, "address.list", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := addressIDFromPath(r)
	if err != nil {
		utils.WriteJSONError(w, "invalid address id", http.StatusBadRequest)
		return
	}

	a, err := h.addresses.Get(r.Context(), id)
	if err != nil {
		respondError(r, w, "address.get", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, a)
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input address.CreateInput
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	a, err := h.addresses.Create(r.Context(), input)
	if err != nil {
		respondError(r, w, "address.create", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, a)
}

// Update never mutates the stored row; the service deactivates it and
// inserts a replacement so past orders keep their snapshot.
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	input := address.UpdateInput{AddressID: mux.Vars(r)["id"]}
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	a, err := h.addresses.Update(r.Context(), input)
	if err != nil {
		respondError(r, w, "address.update", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, a)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := addressIDFromPath(r)
	if err != nil {
		utils.WriteJSONError(w, "invalid address id", http.StatusBadRequest)
		return
	}

	if err := h.addresses.Delete(r.Context(), id); err != nil {
		respondError(r, w, "address.delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	id, err := addressIDFromPath(r)
	if err != nil {
		utils.WriteJSONError(w, "invalid address id", http.StatusBadRequest)
		return
	}

	if err := h.addresses.SetDefaultAddress(r.Context(), id); err != nil {
		respondError(r, w, "address.set_default", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
