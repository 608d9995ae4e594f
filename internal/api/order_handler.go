package api

import (
	"net/http"
	"strconv"
	"time"

	"dukani-be/internal/money"
	"dukani-be/internal/order"
	"dukani-be/internal/utils"

	"github.com/gorilla/mux"
)

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func parseOrderFilter(r *http.Request) (*order.FilterInput, *order.SortInput, int32, int32) {
	q := r.URL.Query()

	filter := &order.FilterInput{}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}
	if v := q.Get("status"); v != "" {
		s := order.Status(v)
		filter.Status = &s
	}
	if v := q.Get("paymentStatus"); v != "" {
		ps := order.PaymentStatus(v)
		filter.PaymentStatus = &ps
	}
	if t, err := time.Parse("2006-01-02", q.Get("dateFrom")); err == nil {
		filter.DateFrom = &t
	}
	if t, err := time.Parse("2006-01-02", q.Get("dateTo")); err == nil {
		// inclusive upper bound: the whole of the named day
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &end
	}

	var sort *order.SortInput
	switch order.SortField(q.Get("sortBy")) {
	case order.SortFieldCreatedAt, order.SortFieldTotal:
		sort = &order.SortInput{
			Field:     order.SortField(q.Get("sortBy")),
			Direction: order.SortAsc,
		}
		if q.Get("sortDir") == "desc" {
			sort.Direction = order.SortDesc
		}
	}

	var limit, page int32
	if v, err := strconv.ParseInt(q.Get("limit"), 10, 32); err == nil {
		limit = int32(v)
	}
	if v, err := strconv.ParseInt(q.Get("page"), 10, 32); err == nil {
		page = int32(v)
	}

	return filter, sort, limit, page
}

// List serves both the customer "my orders" page and the admin table;
// the repository scopes rows to the caller unless they are an admin.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, sort, limit, page := parseOrderFilter(r)

	result, err := h.orders.List(r.Context(), filter, sort, limit, page)
	if err != nil {
		respondError(r, w, "order.list", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

func orderIDFromPath(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return uint(id), err
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFromPath(r)
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		respondError(r, w, "order.get", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

type statusPayload struct {
	Status order.Status `json:"status" validate:"required"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFromPath(r)
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var input statusPayload
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	o, err := h.orders.Transition(r.Context(), id, input.Status)
	if err != nil {
		respondError(r, w, "order.transition", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

type chargesPayload struct {
	Shipping money.Cents `json:"shipping" validate:"min=0"`
	Tax      money.Cents `json:"tax" validate:"min=0"`
	Discount money.Cents `json:"discount" validate:"min=0"`
}

// UpdateCharges lets an admin re-price shipping, tax and discount; the
// service recomputes the total from the stored line items.
func (h *OrderHandler) UpdateCharges(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFromPath(r)
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var input chargesPayload
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	o, err := h.orders.SetCharges(r.Context(), id, input.Shipping, input.Tax, input.Discount)
	if err != nil {
		respondError(r, w, "order.set_charges", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}
