package httpapi

import (
	"net/http"
	"strconv"

	"github.com/Black-And-White-Club/ghost-log/app/eventbus"
)

type changesResponse struct {
	Latest    uint64                 `json:"latest"`
	Truncated bool                   `json:"truncated"`
	Entries   []eventbus.ChangeEntry `json:"entries"`
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	var since uint64
	if raw := r.URL.Query().Get("since"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			s.writeError(w, r, badRequest("invalid since %q", raw))
			return
		}
		since = v
	}
	entries, truncated := s.feed.Since(since)
	writeJSON(w, http.StatusOK, changesResponse{Latest: s.feed.Latest(), Truncated: truncated, Entries: entries})
}
