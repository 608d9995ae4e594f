package api

import (
	"net/http"
	"strconv"

	"dukani-be/internal/returns"
	"dukani-be/internal/utils"

	"github.com/gorilla/mux"
)

type ReturnsHandler struct {
	returns returns.Service
}

func NewReturnsHandler(svc returns.Service) *ReturnsHandler {
	return &ReturnsHandler{returns: svc}
}

func (h *ReturnsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input returns.CreateInput
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	ret, err := h.returns.Create(r.Context(), input)
	if err != nil {
		respondError(r, w, "returns.create", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, ret)
}

func (h *ReturnsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := returns.ListFilter{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	items, err := h.returns.List(r.Context(), filter)
	if err != nil {
		respondError(r, w, "returns.list", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, items)
}

func returnIDFromPath(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return uint(id), err
}

func (h *ReturnsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := returnIDFromPath(r)
	if err != nil {
		utils.WriteJSONError(w, "invalid return id", http.StatusBadRequest)
		return
	}

	ret, err := h.returns.Get(r.Context(), id)
	if err != nil {
		respondError(r, w, "returns.get", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, ret)
}

func (h *ReturnsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := returnIDFromPath(r)
	if err != nil {
		utils.WriteJSONError(w, "invalid return id", http.StatusBadRequest)
		return
	}

	ret, err := h.returns.Approve(r.Context(), id)
	if err != nil {
		respondError(r, w, "returns.approve", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, ret)
}

type rejectPayload struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *ReturnsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := returnIDFromPath(r)
	if err != nil {
		utils.WriteJSONError(w, "invalid return id", http.StatusBadRequest)
		return
	}

	var input rejectPayload
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	ret, err := h.returns.Reject(r.Context(), id, input.Reason)
	if err != nil {
		respondError(r, w, "returns.reject", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, ret)
}

type completePayload struct {
	RefundStatus string `json:"refund_status" validate:"required"`
}

// Complete finalises an approved return and posts the refund back onto
// the parent order.
func (h *ReturnsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := returnIDFromPath(r)
	if err != nil {
		utils.WriteJSONError(w, "invalid return id", http.StatusBadRequest)
		return
	}

	var input completePayload
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	ret, err := h.returns.Complete(r.Context(), id, input.RefundStatus)
	if err != nil {
		respondError(r, w, "returns.complete", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, ret)
}
