package httpapi

import (
	"log/slog"
	"net/http"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/Black-And-White-Club/ghost-log/app/modules/reports"
	"github.com/Black-And-White-Club/ghost-log/app/modules/runfilter"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// filteredViews returns the runs matching the request's filter query, newest first.
func (s *Server) filteredViews(r *http.Request) ([]recordsdomain.RunView, error) {
	c, err := s.parseCriteria(r)
	if err != nil {
		return nil, err
	}
	snap, err := s.records.Snapshot(r.Context())
	if err != nil {
		return nil, err
	}
	return runfilter.Apply(snap, c).Runs, nil
}

func (s *Server) writeBinary(w http.ResponseWriter, r *http.Request, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.WarnContext(r.Context(), "Failed to write report", slog.Any("error", err))
	}
}

func (s *Server) handleRunsWorkbook(w http.ResponseWriter, r *http.Request) {
	views, err := s.filteredViews(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := reports.RunsWorkbook(views)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBinary(w, r, xlsxContentType, "ghostlog-runs.xlsx", data)
}

func (s *Server) handleGhostChart(w http.ResponseWriter, r *http.Request) {
	views, err := s.filteredViews(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	png, err := reports.GhostFrequencyChart(reports.GhostStats(views), reports.DefaultPalette)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBinary(w, r, "image/png", "", png)
}

func (s *Server) handleGhostStats(w http.ResponseWriter, r *http.Request) {
	views, err := s.filteredViews(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.GhostStats(views))
}
