package api

import (
	"net/http"
	"time"

	"dukani-be/internal/report"
	"dukani-be/internal/utils"
)

type ReportHandler struct {
	reports report.Service
}

func NewReportHandler(reports report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Sales accepts ?dateFrom=2026-08-01&dateTo=2026-08-31; the service fills
// in a trailing 30-day window for anything missing.
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	var rng report.Range

	q := r.URL.Query()
	if t, err := time.Parse("2006-01-02", q.Get("dateFrom")); err == nil {
		rng.DateFrom = t
	}
	if t, err := time.Parse("2006-01-02", q.Get("dateTo")); err == nil {
		rng.DateTo = t.Add(24*time.Hour - time.Nanosecond)
	}

	summary, err := h.reports.Sales(r.Context(), rng)
	if err != nil {
		respondError(r, w, "report.sales", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, summary)
}
