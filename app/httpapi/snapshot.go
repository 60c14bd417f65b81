package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
)

type importSummary struct {
	Maps              int `json:"maps"`
	Ghosts            int `json:"ghosts"`
	Evidence          int `json:"evidence"`
	CursedPossessions int `json:"cursedPossessions"`
	GameModes         int `json:"gameModes"`
	Players           int `json:"players"`
	MapCollections    int `json:"mapCollections"`
	ChallengeModes    int `json:"challengeModes"`
	Runs              int `json:"runs"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.records.Export(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+recordsdomain.DefaultExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.WarnContext(r.Context(), "Failed to write export", slog.Any("error", err))
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, badRequest("import exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, badRequest("failed to read body: %v", err))
		return
	}
	snap, err := s.records.Import(r.Context(), data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, importSummary{
		Maps:              len(snap.Maps),
		Ghosts:            len(snap.Ghosts),
		Evidence:          len(snap.Evidence),
		CursedPossessions: len(snap.CursedPossessions),
		GameModes:         len(snap.GameModes),
		Players:           len(snap.Players),
		MapCollections:    len(snap.MapCollections),
		ChallengeModes:    len(snap.ChallengeModes),
		Runs:              len(snap.Runs),
	})
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	if err := s.records.ClearAll(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
