package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"plume/internal/metrics"
	"plume/internal/models"
	"plume/internal/reports"
)

func (s *Server) reportMetrics(r *http.Request) (reports.Metrics, error) {
	kind := reports.Kind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = reports.KindDaily
	}
	ref := r.URL.Query().Get("date")
	if ref == "" {
		ref = time.Now().Format(models.DateFormat)
	}

	window, err := reports.DateRange(kind, ref)
	if err != nil {
		return reports.Metrics{}, err
	}
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		return reports.Metrics{}, err
	}
	return reports.Aggregate(snap.Appointments, window), nil
}

// handleReport computes metrics for a report window. Admin only.
// GET /api/reports?kind=weekly&date=YYYY-MM-DD
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("report")

	if !actorFrom(r).IsAdmin() {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}
	m, err := s.reportMetrics(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleReportExport streams the report as an xlsx workbook. Admin only.
// GET /api/reports/export?kind=monthly&date=YYYY-MM-DD
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("report_export")

	if !actorFrom(r).IsAdmin() {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}
	m, err := s.reportMetrics(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=report_%s_%s.xlsx", m.Window.Start, m.Window.End))
	if err := reports.WriteExcel(m, w); err != nil {
		s.logger.Error().Err(err).Msg("excel export failed")
	}
}

// handleWeekOverview returns the seven-day summary for the week holding
// the given date.
// GET /api/reports/week?date=YYYY-MM-DD
func (s *Server) handleWeekOverview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("report_week")

	ref := r.URL.Query().Get("date")
	if ref == "" {
		ref = time.Now().Format(models.DateFormat)
	}
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	days, err := reports.WeekOverview(snap.Appointments, ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}
