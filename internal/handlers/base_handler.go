package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/slothcave/members-portal/internal/views"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RenderHTML writes the named view with the given status code
func (h *BaseHandler) RenderHTML(w http.ResponseWriter, status int, name string, data any) {
	if err := views.Render(w, status, name, data); err != nil {
		h.Logger.Error("failed to render view", zap.String("view", name), zap.Error(err))
	}
}

// RenderError writes the generic failure page
func (h *BaseHandler) RenderError(w http.ResponseWriter) {
	h.RenderHTML(w, http.StatusInternalServerError, "error", nil)
}

// queryFlag reports whether the named query parameter equals "true"
func queryFlag(r *http.Request, name string) bool {
	return r.URL.Query().Get(name) == "true"
}
