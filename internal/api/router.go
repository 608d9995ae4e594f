package api

import (
	"net/http"

	"dukani-be/internal/logger"
	"dukani-be/internal/middleware"
	"dukani-be/internal/utils"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router needs; main wires it up once.
type Handlers struct {
	Auth      *AuthHandler
	Products  *ProductHandler
	Category  *CategoryHandler
	Orders    *OrderHandler
	Returns   *ReturnsHandler
	Coupons   *CouponHandler
	Inventory *InventoryHandler
	Checkout  *CheckoutHandler
	Addresses *AddressHandler
	Reports   *ReportHandler
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(middleware.AuthMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MetricsMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// public
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)

	api.HandleFunc("/products-list", h.Products.List).Methods(http.MethodGet)
	api.HandleFunc("/products/{slug}", h.Products.GetBySlug).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.Category.Tree).Methods(http.MethodGet)
	api.HandleFunc("/coupons/validate", h.Coupons.Validate).Methods(http.MethodPost)

	// authenticated storefront
	auth := api.NewRoute().Subrouter()
	auth.Use(middleware.RequireAuth)

	auth.HandleFunc("/cart", h.Checkout.GetCart).Methods(http.MethodGet)
	auth.HandleFunc("/cart", h.Checkout.AddToCart).Methods(http.MethodPost)
	auth.HandleFunc("/cart", h.Checkout.ClearCart).Methods(http.MethodDelete)
	auth.HandleFunc("/cart/{productId}", h.Checkout.SetQuantity).Methods(http.MethodPatch)
	auth.HandleFunc("/cart/{productId}", h.Checkout.RemoveFromCart).Methods(http.MethodDelete)

	auth.HandleFunc("/checkout", h.Checkout.Start).Methods(http.MethodPost)
	auth.HandleFunc("/checkout/{id}", h.Checkout.GetSession).Methods(http.MethodGet)
	auth.HandleFunc("/checkout/{id}/address", h.Checkout.AttachAddress).Methods(http.MethodPut)
	auth.HandleFunc("/checkout/{id}/coupon", h.Checkout.ApplyCoupon).Methods(http.MethodPut)
	auth.HandleFunc("/checkout/{id}/confirm", h.Checkout.Confirm).Methods(http.MethodPost)
	auth.HandleFunc("/checkout/{id}", h.Checkout.Cancel).Methods(http.MethodDelete)

	auth.HandleFunc("/orders", h.Orders.List).Methods(http.MethodGet)
	auth.HandleFunc("/orders/{id}", h.Orders.Get).Methods(http.MethodGet)
	auth.HandleFunc("/returns", h.Returns.Create).Methods(http.MethodPost)

	auth.HandleFunc("/addresses", h.Addresses.List).Methods(http.MethodGet)
	auth.HandleFunc("/addresses", h.Addresses.Create).Methods(http.MethodPost)
	auth.HandleFunc("/addresses/{id}", h.Addresses.Get).Methods(http.MethodGet)
	auth.HandleFunc("/addresses/{id}", h.Addresses.Update).Methods(http.MethodPut)
	auth.HandleFunc("/addresses/{id}", h.Addresses.Delete).Methods(http.MethodDelete)
	auth.HandleFunc("/addresses/{id}/default", h.Addresses.SetDefault).Methods(http.MethodPost)

	// admin
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/products", h.Products.AdminList).Methods(http.MethodGet)
	admin.HandleFunc("/products", h.Products.Create).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}", h.Products.GetByID).Methods(http.MethodGet)
	admin.HandleFunc("/products/{id}", h.Products.Update).Methods(http.MethodPatch)
	admin.HandleFunc("/products/{id}", h.Products.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/products/{id}/images", h.Products.AddImages).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}/images", h.Products.DeleteImage).Methods(http.MethodDelete)

	admin.HandleFunc("/categories", h.Category.Create).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{id}/subcategories", h.Category.CreateSubcategory).Methods(http.MethodPost)

	admin.HandleFunc("/orders/{id}/status", h.Orders.UpdateStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/orders/{id}/charges", h.Orders.UpdateCharges).Methods(http.MethodPatch)

	admin.HandleFunc("/returns", h.Returns.List).Methods(http.MethodGet)
	admin.HandleFunc("/returns/{id}", h.Returns.Get).Methods(http.MethodGet)
	admin.HandleFunc("/returns/{id}/approve", h.Returns.Approve).Methods(http.MethodPost)
	admin.HandleFunc("/returns/{id}/reject", h.Returns.Reject).Methods(http.MethodPost)
	admin.HandleFunc("/returns/{id}/complete", h.Returns.Complete).Methods(http.MethodPost)

	admin.HandleFunc("/coupons", h.Coupons.List).Methods(http.MethodGet)
	admin.HandleFunc("/coupons", h.Coupons.Create).Methods(http.MethodPost)
	admin.HandleFunc("/coupons/{id}", h.Coupons.Get).Methods(http.MethodGet)
	admin.HandleFunc("/coupons/{id}", h.Coupons.Update).Methods(http.MethodPatch)
	admin.HandleFunc("/coupons/{id}", h.Coupons.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/inventory", h.Inventory.GetMany).Methods(http.MethodGet)
	admin.HandleFunc("/inventory/{productId}", h.Inventory.Get).Methods(http.MethodGet)
	admin.HandleFunc("/inventory", h.Inventory.Adjust).Methods(http.MethodPost)
	admin.HandleFunc("/inventory/{productId}/reserve", h.Inventory.Reserve).Methods(http.MethodPost)
	admin.HandleFunc("/inventory/{productId}/release", h.Inventory.Release).Methods(http.MethodPost)
	admin.HandleFunc("/inventory/{productId}/commit", h.Inventory.Commit).Methods(http.MethodPost)

	admin.HandleFunc("/reports/sales", h.Reports.Sales).Methods(http.MethodGet)

	return r
}
