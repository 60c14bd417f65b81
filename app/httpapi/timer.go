package httpapi

import "net/http"

func (s *Server) handleTimerState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stopwatch.State())
}

// handleTimerStart ties the tick loop to the server lifetime, not the request.
func (s *Server) handleTimerStart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stopwatch.Start(s.lifetime))
}

func (s *Server) handleTimerPause(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stopwatch.Pause())
}

func (s *Server) handleTimerStop(w http.ResponseWriter, _ *http.Request) {
	s.stopwatch.Stop()
	writeJSON(w, http.StatusOK, s.stopwatch.State())
}

func (s *Server) handleTimerReset(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stopwatch.Reset())
}
