package api

import (
	"net/http"

	"dukani-be/internal/checkout"
	"dukani-be/internal/utils"

	"github.com/gorilla/mux"
)

type CheckoutHandler struct {
	checkout checkout.Service
}

func NewCheckoutHandler(svc checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc}
}

func callerID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
	}
	return userID, ok
}

func (h *CheckoutHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	items, err := h.checkout.GetCart(r.Context(), userID)
	if err != nil {
		respondError(r, w, "cart.get", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *CheckoutHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var input checkout.AddItemInput
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	item, err := h.checkout.AddToCart(r.Context(), userID, input)
	if err != nil {
		respondError(r, w, "cart.add", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, item)
}

type quantityPayload struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// SetQuantity replaces the line quantity; zero removes the line.
func (h *CheckoutHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var input quantityPayload
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	if err := h.checkout.SetQuantity(r.Context(), userID, mux.Vars(r)["productId"], input.Quantity); err != nil {
		respondError(r, w, "cart.set_quantity", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.checkout.RemoveFromCart(r.Context(), userID, mux.Vars(r)["productId"]); err != nil {
		respondError(r, w, "cart.remove", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.checkout.ClearCart(r.Context(), userID); err != nil {
		respondError(r, w, "cart.clear", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Start snapshots the cart into a pending session and reserves stock
// for every line.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	session, err := h.checkout.Start(r.Context(), userID)
	if err != nil {
		respondError(r, w, "checkout.start", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, session)
}

func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	session, err := h.checkout.GetSession(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		respondError(r, w, "checkout.get_session", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, session)
}

type attachAddressPayload struct {
	AddressID string `json:"addressId" validate:"required"`
}

func (h *CheckoutHandler) AttachAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var input attachAddressPayload
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	session, err := h.checkout.AttachAddress(r.Context(), userID, mux.Vars(r)["id"], input.AddressID)
	if err != nil {
		respondError(r, w, "checkout.attach_address", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, session)
}

type applyCouponPayload struct {
	Code string `json:"code" validate:"required"`
}

func (h *CheckoutHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var input applyCouponPayload
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	session, err := h.checkout.ApplyCoupon(r.Context(), userID, mux.Vars(r)["id"], input.Code)
	if err != nil {
		respondError(r, w, "checkout.apply_coupon", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, session)
}

func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	o, err := h.checkout.Confirm(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		respondError(r, w, "checkout.confirm", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, o)
}

func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.checkout.Cancel(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		respondError(r, w, "checkout.cancel", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
