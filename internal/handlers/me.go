package handlers

import (
	"net/http"

	"github.com/campushq/campus-records/internal/access"
	"github.com/campushq/campus-records/internal/middleware"
)

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

// Get returns the resolved session and its role capabilities, resolved
// once here rather than per-widget on the client.
func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session":      sess,
		"capabilities": access.CapabilitiesFor(sess.Role),
	})
}
