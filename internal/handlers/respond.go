package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/campushq/campus-records/internal/repository"
)

// writeJSON renders a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps the repository error taxonomy onto HTTP statuses. The
// underlying error object, not its presentation, is the contract; the
// message is passed through for the view layer to render.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *repository.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
	case errors.Is(err, repository.ErrPermission):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "permission denied"})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, repository.ErrTransient):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Backing store fault")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// parseListOptions reads the common list parameters from the query string.
// allowedFilters maps query parameter names onto store columns.
func parseListOptions(r *http.Request, allowedFilters map[string]string) repository.ListOptions {
	q := r.URL.Query()
	opts := repository.ListOptions{
		Search: q.Get("search"),
	}
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			opts.Limit = n
		}
	}
	for param, col := range allowedFilters {
		if v := q.Get(param); v != "" {
			if opts.Filters == nil {
				opts.Filters = map[string]any{}
			}
			opts.Filters[col] = v
		}
	}
	if raw := q.Get("created_from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			opts.CreatedFrom = &t
		}
	}
	if raw := q.Get("created_to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			opts.CreatedTo = &t
		}
	}
	return opts
}
