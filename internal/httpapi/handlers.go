package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/EricA1019/godot-mcp-index/internal/control"
	"github.com/EricA1019/godot-mcp-index/pkg/types"
)

type handlers struct {
	surface *control.Surface
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.surface.Health(r.Context()))
}

func (h *handlers) scan(w http.ResponseWriter, r *http.Request) {
	result, err := h.surface.Scan(r.Context(), r.URL.Query().Get("path"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.surface.Reconcile(r.Context(), r.URL.Query().Get("path"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
		return
	}
	result, err := h.surface.Query(r.Context(), query, intPtrFromQuery(q, "limit"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) queryAdvanced(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
		return
	}
	hits, err := h.surface.QueryAdvanced(r.Context(), control.QueryAdvancedRequest{
		Query:   query,
		Kind:    q.Get("kind"),
		Limit:   intPtrFromQuery(q, "limit"),
		Snippet: q.Get("snippet") == "true",
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"hits": hits})
}

func (h *handlers) bundle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
		return
	}
	result, err := h.surface.Bundle(r.Context(), control.BundleRequest{
		Query:    query,
		Kind:     q.Get("kind"),
		Limit:    intPtrFromQuery(q, "limit"),
		CapBytes: int64PtrFromQuery(q, "cap_bytes"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) watchStart(w http.ResponseWriter, r *http.Request) {
	status, err := h.surface.WatchStart(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (h *handlers) watchStop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": h.surface.WatchStop()})
}

func (h *handlers) indexHealth(w http.ResponseWriter, r *http.Request) {
	result, err := h.surface.IndexHealth(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrIndexUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, types.ErrQueryInvalid):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func intPtrFromQuery(q map[string][]string, key string) *int {
	v, ok := q[key]
	if !ok || len(v) == 0 {
		return nil
	}
	n, err := strconv.Atoi(v[0])
	if err != nil {
		return nil
	}
	return &n
}

func int64PtrFromQuery(q map[string][]string, key string) *int64 {
	v, ok := q[key]
	if !ok || len(v) == 0 {
		return nil
	}
	n, err := strconv.ParseInt(v[0], 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
