package handlers

import (
	"math/rand/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/slothcave/members-portal/internal/middlewares"
	"github.com/slothcave/members-portal/internal/session"
	"github.com/slothcave/members-portal/internal/views"
)

// PagesHandler handles the public pages and the members section
type PagesHandler struct {
	BaseHandler
	sessions *session.Manager
}

// NewPagesHandler creates a new pages handler
func NewPagesHandler(sessions *session.Manager, logger *zap.Logger) *PagesHandler {
	return &PagesHandler{
		BaseHandler: BaseHandler{Logger: logger},
		sessions:    sessions,
	}
}

// RegisterRoutes registers the page routes. requireLogin guards the members
// section.
func (h *PagesHandler) RegisterRoutes(r chi.Router, requireLogin func(http.Handler) http.Handler) {
	r.Get("/", h.Home)
	r.Get("/sloth/{id}", h.Sloth)
	r.Group(func(r chi.Router) {
		r.Use(requireLogin)
		r.Get("/members", h.Members)
	})
	r.NotFound(h.NotFound)
}

// Home handles GET /
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Load(r)
	if err != nil {
		h.Logger.Error("failed to load session", zap.Error(err))
		h.RenderError(w)
		return
	}

	data := views.HomeData{}
	if sess != nil && sess.Authenticated {
		data.LoggedIn = true
		data.Name = sess.UserName
	}

	h.RenderHTML(w, http.StatusOK, "home", data)
}

// Members handles GET /members behind the login gate
func (h *PagesHandler) Members(w http.ResponseWriter, r *http.Request) {
	sess, ok := middlewares.SessionFromContext(r.Context())
	if !ok {
		h.RenderError(w)
		return
	}

	h.RenderHTML(w, http.StatusOK, "members", views.MembersData{
		Name:    sess.UserName,
		SlothID: rand.IntN(3) + 1,
	})
}

// Sloth handles GET /sloth/{id}
func (h *PagesHandler) Sloth(w http.ResponseWriter, r *http.Request) {
	h.RenderHTML(w, http.StatusOK, "sloth", views.SlothData{
		ID: chi.URLParam(r, "id"),
	})
}

// NotFound is the catch-all 404 page
func (h *PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.RenderHTML(w, http.StatusNotFound, "notfound", nil)
}
