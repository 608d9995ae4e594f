package api

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"dukani-be/internal/address"
	"dukani-be/internal/category"
	"dukani-be/internal/checkout"
	"dukani-be/internal/coupon"
	"dukani-be/internal/inventory"
	"dukani-be/internal/logger"
	"dukani-be/internal/metrics"
	"dukani-be/internal/order"
	"dukani-be/internal/product"
	"dukani-be/internal/report"
	"dukani-be/internal/returns"
	"dukani-be/internal/user"
	"dukani-be/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// decodeJSON parses the body into dst and runs struct validation.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// statusFor maps domain errors onto HTTP statuses. Unknown errors are 500s.
func statusFor(err error) int {
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, product.ErrImageNotFound),
		errors.Is(err, category.ErrCategoryNotFound),
		errors.Is(err, returns.ErrReturnNotFound),
		errors.Is(err, returns.ErrOrderNotFound),
		errors.Is(err, coupon.ErrCouponNotFound),
		errors.Is(err, inventory.ErrLevelNotFound),
		errors.Is(err, address.ErrAddressNotFound),
		errors.Is(err, checkout.ErrCartItemNotFound),
		errors.Is(err, checkout.ErrSessionNotFound):
		return http.StatusNotFound

	case errors.Is(err, order.ErrUnauthorized):
		return http.StatusForbidden

	case errors.Is(err, address.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrStaleStatus),
		errors.Is(err, returns.ErrNotPending),
		errors.Is(err, returns.ErrNotApproved),
		errors.Is(err, checkout.ErrSessionNotPending),
		errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrNegativeStock),
		errors.Is(err, checkout.ErrInsufficientStock),
		errors.Is(err, product.ErrDuplicateSKU),
		errors.Is(err, coupon.ErrDuplicateCode),
		errors.Is(err, user.ErrEmailExists):
		return http.StatusConflict

	case errors.Is(err, checkout.ErrSessionExpired):
		return http.StatusGone

	case errors.Is(err, coupon.ErrCouponInactive),
		errors.Is(err, coupon.ErrCouponNotYetValid),
		errors.Is(err, coupon.ErrCouponExpired),
		errors.Is(err, coupon.ErrCouponExhausted),
		errors.Is(err, coupon.ErrMinPurchaseNotMet):
		return http.StatusUnprocessableEntity

	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, product.ErrEmptyName),
		errors.Is(err, product.ErrNoFieldsToSet),
		errors.Is(err, coupon.ErrNoFieldsToSet),
		errors.Is(err, category.ErrEmptyName),
		errors.Is(err, checkout.ErrCartEmpty),
		errors.Is(err, checkout.ErrAddressRequired),
		errors.Is(err, checkout.ErrQuantityNotAllowed),
		errors.Is(err, report.ErrInvalidRange):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// degraded reports whether the error means the backing store is
// unreachable rather than the request being wrong. Those surface as an
// explicit 503 so clients can show a degraded state instead of silently
// substituting stale or placeholder data.
func degraded(err error) bool {
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func respondError(r *http.Request, w http.ResponseWriter, operation string, err error) {
	if degraded(err) {
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
		logger.FromCtx(r.Context()).Error("backing store unavailable",
			zap.String("operation", operation),
			zap.Error(err),
		)
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"degraded": true,
			"error":    "service temporarily unavailable",
		})
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		utils.WriteJSONError(w, "internal server error", status)
		return
	}

	utils.WriteJSONError(w, err.Error(), status)
}

func respondValidation(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		utils.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": fields,
		})
		return
	}
	utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
}
