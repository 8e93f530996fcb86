package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/slothcave/members-portal/internal/models"
)

const (
	// CookieName is the name of the session cookie
	CookieName = "mp_session"
	// Lifetime is the fixed session time-to-live, reset on each successful
	// signup or login
	Lifetime = time.Hour

	sessionIDBytes = 32
)

// Manager resolves sessions from cookies and issues new ones. The cookie
// carries only the opaque session ID plus an HMAC signature; all session
// state lives in the store.
type Manager struct {
	store         Store
	signingSecret []byte
	logger        *zap.Logger
}

// NewManager creates a session manager
func NewManager(store Store, signingSecret string, logger *zap.Logger) *Manager {
	return &Manager{
		store:         store,
		signingSecret: []byte(signingSecret),
		logger:        logger,
	}
}

// Issue creates an authenticated session for the user, persists it and sets
// the session cookie. Only the signup and login flows may call Issue; nothing
// else can produce an authenticated session.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, user *models.User) (*models.Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	session := &models.Session{
		ID:            id,
		Authenticated: true,
		UserName:      user.Name,
		UserEmail:     user.Email,
		Role:          user.Role,
		ExpiresAt:     time.Now().Add(Lifetime),
	}

	if err := m.store.Save(ctx, session); err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    m.sign(id),
		Path:     "/",
		MaxAge:   int(Lifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return session, nil
}

// Load resolves the session referenced by the request cookie. A missing,
// tampered or expired cookie yields (nil, nil); only store failures surface
// as errors.
func (m *Manager) Load(r *http.Request) (*models.Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}

	id, ok := m.verify(cookie.Value)
	if !ok {
		m.logger.Warn("rejected session cookie with bad signature")
		return nil, nil
	}

	session, err := m.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		// The store TTL should have removed it already; clean up just in case.
		_ = m.store.Delete(r.Context(), id)
		return nil, nil
	}

	return session, nil
}

// Destroy invalidates the session server-side and expires the cookie.
// Requests carrying the same cookie afterwards are unauthenticated.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, session *models.Session) error {
	if session != nil {
		if err := m.store.Delete(ctx, session.ID); err != nil {
			return err
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// sign produces the cookie value "<id>.<hmac>"
func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.signingSecret)
	mac.Write([]byte(id))
	return id + "." + hex.EncodeToString(mac.Sum(nil))
}

// verify checks the cookie signature and returns the session ID
func (m *Manager) verify(value string) (string, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}

	mac := hmac.New(sha256.New, m.signingSecret)
	mac.Write([]byte(id))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}

	return id, true
}

// generateSessionID returns a random opaque token
func generateSessionID() (string, error) {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
