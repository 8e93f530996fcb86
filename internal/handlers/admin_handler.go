package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/slothcave/members-portal/internal/errors"
	"github.com/slothcave/members-portal/internal/models"
	"github.com/slothcave/members-portal/internal/views"
)

// AdminService is the interface that wraps methods for admin business logic.
type AdminService interface {
	// Method ListUsers retrieves all users for the admin page.
	//
	// If some error occurs during the query, the error will be returned together with "nil" value.
	ListUsers(ctx context.Context) ([]models.User, error)
	// Method Promote sets the role of the user identified by ID to admin.
	//
	// "userID" parameter identifies the user to promote.
	//
	// If no user with such ID exists, ErrUserNotFound will be returned.
	Promote(ctx context.Context, userID int) error
	// Method Demote sets the role of the user identified by ID back to user.
	//
	// "userID" parameter identifies the user to demote.
	//
	// If no user with such ID exists, ErrUserNotFound will be returned.
	Demote(ctx context.Context, userID int) error
}

// AdminHandler handles the admin-only user list and role changes.
// All of its routes must sit behind the admin role gate.
type AdminHandler struct {
	BaseHandler
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		adminService: adminService,
	}
}

// RegisterRoutes registers all admin handler routes
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin", h.AdminPage)
	r.Post("/promoteUser", h.PromoteUser)
	r.Post("/demoteUser", h.DemoteUser)
}

// AdminPage handles GET /admin
func (h *AdminHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		h.Logger.Error("failed to list users", zap.Error(err))
		h.RenderError(w)
		return
	}

	h.RenderHTML(w, http.StatusOK, "admin", views.AdminData{Users: users})
}

// PromoteUser handles POST /promoteUser
func (h *AdminHandler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	h.changeRole(w, r, h.adminService.Promote)
}

// DemoteUser handles POST /demoteUser
func (h *AdminHandler) DemoteUser(w http.ResponseWriter, r *http.Request) {
	h.changeRole(w, r, h.adminService.Demote)
}

// changeRole parses the target user ID and applies the role change, then
// returns to the admin page
func (h *AdminHandler) changeRole(w http.ResponseWriter, r *http.Request, change func(context.Context, int) error) {
	if err := r.ParseForm(); err != nil {
		h.Logger.Error("failed to parse role change form", zap.Error(err))
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}

	userID, err := strconv.Atoi(r.PostFormValue("userId"))
	if err != nil || userID <= 0 {
		h.Logger.Warn("role change with malformed user id", zap.String("userId", r.PostFormValue("userId")))
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}

	if err := change(r.Context(), userID); err != nil {
		// A vanished user is not fatal; anything else is a store failure
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			h.Logger.Error("failed to change user role", zap.Int("userID", userID), zap.Error(err))
			h.RenderError(w)
			return
		}
	}

	http.Redirect(w, r, "/admin", http.StatusFound)
}
