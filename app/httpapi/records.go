package httpapi

import (
	"context"
	"net/http"
	"strconv"

	recordsservice "github.com/Black-And-White-Club/ghost-log/app/modules/records/application"
	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/go-chi/chi/v5"
)

// mountCollection registers the CRUD routes of one reference collection under
// /api/{kind}. toggle-archived is only mounted for archivable records.
func mountCollection[T any, P recordsdomain.Record[T]](r chi.Router, s *Server, c *recordsservice.Collection[T, P]) {
	h := collectionHandlers[T, P]{s: s, c: c}
	r.Route("/"+string(c.Kind()), func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
		r.Post("/{id}/toggle-active", h.toggleActive)
		if _, ok := any(P(new(T))).(recordsdomain.Archivable); ok {
			r.Post("/{id}/toggle-archived", h.toggleArchived)
		}
	})
}

type collectionHandlers[T any, P recordsdomain.Record[T]] struct {
	s *Server
	c *recordsservice.Collection[T, P]
}

func (h collectionHandlers[T, P]) list(w http.ResponseWriter, r *http.Request) {
	var (
		items []T
		err   error
	)
	if active, _ := strconv.ParseBool(r.URL.Query().Get("active")); active {
		items, err = h.c.ListActive(r.Context())
	} else {
		items, err = h.c.List(r.Context())
	}
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h collectionHandlers[T, P]) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	item, err := h.c.Get(r.Context(), id)
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h collectionHandlers[T, P]) create(w http.ResponseWriter, r *http.Request) {
	var in T
	if err := decodeJSON(w, r, &in); err != nil {
		h.s.writeError(w, r, err)
		return
	}
	item, err := h.c.Create(r.Context(), in)
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h collectionHandlers[T, P]) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	var in T
	if err := decodeJSON(w, r, &in); err != nil {
		h.s.writeError(w, r, err)
		return
	}
	item, err := h.c.Update(r.Context(), id, in)
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h collectionHandlers[T, P]) remove(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.c.Delete)
}

func (h collectionHandlers[T, P]) toggleActive(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.c.ToggleActive)
}

func (h collectionHandlers[T, P]) toggleArchived(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.c.ToggleArchived)
}

func (h collectionHandlers[T, P]) byID(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int) (T, error)) {
	id, err := idParam(r)
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	item, err := fn(r.Context(), id)
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
