package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps request bodies, snapshot imports included.
const maxBodyBytes = 32 << 20

// errBadRequest marks request errors that never reached the store.
var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// StatusFor maps an error to its HTTP status and a short kind tag.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, recordsdomain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, recordsdomain.ErrDuplicateName):
		return http.StatusConflict, "duplicate_name"
	case errors.Is(err, recordsdomain.ErrTooManyDefaults):
		return http.StatusConflict, "too_many_defaults"
	case errors.Is(err, recordsdomain.ErrInvalidReference):
		return http.StatusUnprocessableEntity, "invalid_reference"
	case errors.Is(err, recordsdomain.ErrInvalidConfiguration):
		return http.StatusUnprocessableEntity, "invalid_configuration"
	case errors.Is(err, recordsdomain.ErrMalformedFile):
		return http.StatusBadRequest, "malformed_file"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := StatusFor(err)
	msg := err.Error()
	var domainErr *recordsdomain.Error
	if errors.As(err, &domainErr) {
		msg = domainErr.Error()
	}
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "Request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: msg, Kind: kind})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is empty")
		}
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

func idParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id %q", raw)
	}
	return id, nil
}
