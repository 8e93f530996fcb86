package middlewares

import (
	"context"
	"net/http"

	"github.com/slothcave/members-portal/internal/models"
	"github.com/slothcave/members-portal/internal/session"
	"github.com/slothcave/members-portal/internal/views"
)

const sessionKey contextKey = "session"

// RequireLogin resolves the session and redirects unauthenticated requests
// to the login page with the notLoggedIn flag
func RequireLogin(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := manager.Load(r)
			if err != nil {
				// Store failures are not recovered locally
				_ = views.Render(w, http.StatusInternalServerError, "error", nil)
				return
			}

			if sess == nil || !sess.Authenticated {
				http.Redirect(w, r, "/login?notLoggedIn=true", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin allows only sessions carrying the admin role. Unauthenticated
// requests redirect to login; authenticated non-admins get a 403 view
// instead of a redirect.
func RequireAdmin(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := manager.Load(r)
			if err != nil {
				_ = views.Render(w, http.StatusInternalServerError, "error", nil)
				return
			}

			if sess == nil || !sess.Authenticated {
				http.Redirect(w, r, "/login?notLoggedIn=true", http.StatusFound)
				return
			}

			if !sess.IsAdmin() {
				_ = views.Render(w, http.StatusForbidden, "forbidden", nil)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext retrieves the session placed in context by RequireLogin
// or RequireAdmin
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*models.Session)
	return sess, ok
}
