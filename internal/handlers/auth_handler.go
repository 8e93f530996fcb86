package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/slothcave/members-portal/internal/errors"
	"github.com/slothcave/members-portal/internal/models"
	"github.com/slothcave/members-portal/internal/session"
	"github.com/slothcave/members-portal/internal/views"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method SignUp performs a user credentials validation and creation and returns the created user.
	//
	// "name", "email" and "password" parameters are the raw form values.
	//
	// If the user passed blank or invalid credentials, or such user already exists, or some other
	// error occurs, the error will be returned together with "nil" value.
	SignUp(ctx context.Context, name, email, password string) (*models.User, error)
	// Method Login performs a user credentials validation and returns the matched user.
	//
	// "name" and "password" parameters are the raw form values.
	//
	// If the name is blank or malformed, or no single user matches, or the password does not
	// match, the error will be returned together with "nil" value.
	Login(ctx context.Context, name, password string) (*models.User, error)
}

// AuthHandler handles the signup, login and logout pages and flows
type AuthHandler struct {
	BaseHandler
	authService AuthService
	sessions    *session.Manager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService AuthService,
	sessions *session.Manager,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
		sessions:    sessions,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/signup", h.SignupPage)
	r.Post("/submitUser", h.SubmitUser)
	r.Get("/login", h.LoginPage)
	r.Post("/loggingin", h.LoggingIn)
	r.Get("/logout", h.Logout)
}

// SignupPage handles GET /signup
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.RenderHTML(w, http.StatusOK, "signup", views.SignupData{
		Blank:   queryFlag(r, "blank"),
		Invalid: queryFlag(r, "invalid"),
	})
}

// SubmitUser handles POST /submitUser
func (h *AuthHandler) SubmitUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Logger.Error("failed to parse signup form", zap.Error(err))
		http.Redirect(w, r, "/signup?invalid=true", http.StatusFound)
		return
	}

	user, err := h.authService.SignUp(r.Context(),
		r.PostFormValue("name"),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
	)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBlankField):
			http.Redirect(w, r, "/signup?blank=true", http.StatusFound)
		case errors.Is(err, apperrors.ErrInvalidName),
			errors.Is(err, apperrors.ErrInvalidEmail),
			errors.Is(err, apperrors.ErrInvalidPassword),
			errors.Is(err, apperrors.ErrUserExists):
			http.Redirect(w, r, "/signup?invalid=true", http.StatusFound)
		default:
			h.Logger.Error("failed to sign up user", zap.Error(err))
			h.RenderError(w)
		}
		return
	}

	if _, err := h.sessions.Issue(r.Context(), w, user); err != nil {
		h.Logger.Error("failed to issue session", zap.Error(err))
		h.RenderError(w)
		return
	}

	http.Redirect(w, r, "/members", http.StatusFound)
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.RenderHTML(w, http.StatusOK, "login", views.LoginData{
		Blank:         queryFlag(r, "blank"),
		Invalid:       queryFlag(r, "invalid"),
		Incorrect:     queryFlag(r, "incorrect"),
		IncorrectPass: queryFlag(r, "incorrectPass"),
		NotLoggedIn:   queryFlag(r, "notLoggedIn"),
	})
}

// LoggingIn handles POST /loggingin
func (h *AuthHandler) LoggingIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Logger.Error("failed to parse login form", zap.Error(err))
		http.Redirect(w, r, "/login?invalid=true", http.StatusFound)
		return
	}

	user, err := h.authService.Login(r.Context(),
		r.PostFormValue("name"),
		r.PostFormValue("password"),
	)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBlankField):
			http.Redirect(w, r, "/login?blank=true", http.StatusFound)
		case errors.Is(err, apperrors.ErrInvalidName):
			http.Redirect(w, r, "/login?invalid=true", http.StatusFound)
		case errors.Is(err, apperrors.ErrUserNotFound):
			http.Redirect(w, r, "/login?incorrect=true", http.StatusFound)
		case errors.Is(err, apperrors.ErrWrongPassword):
			http.Redirect(w, r, "/login?incorrectPass=true", http.StatusFound)
		default:
			h.Logger.Error("failed to log in user", zap.Error(err))
			h.RenderError(w)
		}
		return
	}

	// Issue a fresh session with the role copied from the stored user
	if _, err := h.sessions.Issue(r.Context(), w, user); err != nil {
		h.Logger.Error("failed to issue session", zap.Error(err))
		h.RenderError(w)
		return
	}

	http.Redirect(w, r, "/members", http.StatusFound)
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Load(r)
	if err != nil {
		h.Logger.Error("failed to load session", zap.Error(err))
		h.RenderError(w)
		return
	}

	if err := h.sessions.Destroy(r.Context(), w, sess); err != nil {
		h.Logger.Error("failed to destroy session", zap.Error(err))
		h.RenderError(w)
		return
	}

	h.RenderHTML(w, http.StatusOK, "logout", nil)
}
