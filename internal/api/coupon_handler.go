package api

import (
	"net/http"
	"strconv"

	"dukani-be/internal/coupon"
	"dukani-be/internal/money"
	"dukani-be/internal/utils"

	"github.com/gorilla/mux"
)

type CouponHandler struct {
	coupons coupon.Service
}

func NewCouponHandler(coupons coupon.Service) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input coupon.NewCoupon
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	c, err := h.coupons.Create(r.Context(), input)
	if err != nil {
		respondError(r, w, "coupon.create", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input coupon.UpdateCoupon
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}
	input.ID = mux.Vars(r)["id"]

	c, err := h.coupons.Update(r.Context(), input)
	if err != nil {
		respondError(r, w, "coupon.update", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.coupons.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(r, w, "coupon.delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CouponHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.coupons.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(r, w, "coupon.get", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := coupon.ListFilter{
		Query: q.Get("search"),
		Type:  coupon.Type(q.Get("type")),
	}
	if v, err := strconv.ParseBool(q.Get("active")); err == nil {
		filter.Active = &v
	}

	items, err := h.coupons.List(r.Context(), filter)
	if err != nil {
		respondError(r, w, "coupon.list", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, items)
}

type validateCouponPayload struct {
	Code     string      `json:"code" validate:"required"`
	Subtotal money.Cents `json:"subtotal" validate:"gte=0"`
	Shipping money.Cents `json:"shipping" validate:"gte=0"`
}

// Validate prices a coupon against a hypothetical cart without redeeming
// it; the storefront uses this for the live discount preview.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var input validateCouponPayload
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	applied, err := h.coupons.Apply(r.Context(), input.Code, input.Subtotal, input.Shipping)
	if err != nil {
		respondError(r, w, "coupon.validate", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, applied)
}
