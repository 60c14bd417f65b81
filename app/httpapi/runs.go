package httpapi

import (
	"net/http"
	"strings"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/Black-And-White-Club/ghost-log/app/modules/runfilter"
)

type browseResponse struct {
	runfilter.Result
	RosterCandidates []string `json:"rosterCandidates"`
}

// parseCriteria reads filter selections from the query string. The date accepts natural
// input such as "yesterday", resolved against the time the request arrived. The roster is given as repeated or comma-separated
// "roster" values.
func (s *Server) parseCriteria(r *http.Request) (runfilter.Criteria, error) {
	q := r.URL.Query()
	c := runfilter.NewCriteria()
	dates := runfilter.AnchoredDateParser(s.clock)
	for _, f := range runfilter.Fields {
		v := strings.TrimSpace(q.Get(string(f)))
		if v == "" {
			continue
		}
		if f == runfilter.FieldDate {
			date, err := dates.Parse(v)
			if err != nil {
				return c, badRequest("%v", err)
			}
			v = date
		}
		c.Values[f] = v
	}
	for _, raw := range append(q["roster"], q["exactPlayerRoster"]...) {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.ExactRoster = append(c.ExactRoster, name)
			}
		}
	}
	return c, nil
}

func (s *Server) handleBrowseRuns(w http.ResponseWriter, r *http.Request) {
	c, err := s.parseCriteria(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.records.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, browseResponse{
		Result:           runfilter.Apply(snap, c),
		RosterCandidates: runfilter.RosterCandidates(snap.Runs),
	})
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var in recordsdomain.Run
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.records.CreateRun(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.records.GetRun(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateRun(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in recordsdomain.Run
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.records.UpdateRun(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	run, err := s.records.DeleteRun(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleClearRuns(w http.ResponseWriter, r *http.Request) {
	removed, err := s.records.ClearRuns(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
