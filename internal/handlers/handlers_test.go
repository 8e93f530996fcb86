package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/slothcave/members-portal/internal/errors"
	"github.com/slothcave/members-portal/internal/middlewares"
	"github.com/slothcave/members-portal/internal/models"
	"github.com/slothcave/members-portal/internal/services"
	"github.com/slothcave/members-portal/internal/session"
)

// stubUserRepo is an in-memory user store shared by the auth and admin services
type stubUserRepo struct {
	mu     sync.Mutex
	users  []models.User
	nextID int
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Name == user.Name || u.Email == user.Email {
			return apperrors.ErrUserExists
		}
	}
	s.nextID++
	user.ID = s.nextID
	s.users = append(s.users, *user)
	return nil
}

func (s *stubUserRepo) ListByName(ctx context.Context, name string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matches []models.User
	for _, u := range s.users {
		if u.Name == name {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *stubUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, len(s.users))
	copy(users, s.users)
	return users, nil
}

func (s *stubUserRepo) SetRole(ctx context.Context, userID int, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == userID {
			s.users[i].Role = role
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

// seed inserts a user with a fast-cost password hash
func (s *stubUserRepo) seed(t *testing.T, name, email, password string, role models.Role) int {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, s.Create(context.Background(), user))
	return user.ID
}

// roleOf returns the current role of the user with the given ID
func (s *stubUserRepo) roleOf(t *testing.T, userID int) models.Role {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == userID {
			return u.Role
		}
	}
	t.Fatalf("user %d not found", userID)
	return ""
}

func (s *stubUserRepo) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// setupTestApp wires the full router the way cmd/main.go does, with an
// in-memory user store and a miniredis-backed session store
func setupTestApp(t *testing.T) (chi.Router, *stubUserRepo) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store, err := session.NewRedisStore(client, "test-encryption-secret")
	require.NoError(t, err)
	manager := session.NewManager(store, "test-signing-secret", zap.NewNop())

	repo := &stubUserRepo{}
	logger := zap.NewNop()
	authService := services.NewAuthService(repo, logger)
	adminService := services.NewAdminService(repo, logger)

	authHandler := NewAuthHandler(authService, manager, logger)
	pagesHandler := NewPagesHandler(manager, logger)
	adminHandler := NewAdminHandler(adminService, logger)

	r := chi.NewRouter()
	pagesHandler.RegisterRoutes(r, middlewares.RequireLogin(manager))
	authHandler.RegisterRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(middlewares.RequireAdmin(manager))
		adminHandler.RegisterRoutes(r)
	})

	return r, repo
}

// doGet performs a GET request, optionally with a session cookie
func doGet(r chi.Router, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doPost performs a form POST request, optionally with a session cookie
func doPost(r chi.Router, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// sessionCookie extracts the session cookie from a response
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

// loginAs performs a login and returns the issued session cookie
func loginAs(t *testing.T, r chi.Router, name, password string) *http.Cookie {
	t.Helper()
	w := doPost(r, "/loggingin", url.Values{"name": {name}, "password": {password}}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/members", w.Header().Get("Location"))
	return sessionCookie(t, w)
}

func TestSignup(t *testing.T) {
	t.Run("blank field", func(t *testing.T) {
		r, repo := setupTestApp(t)

		for _, form := range []url.Values{
			{"name": {""}, "email": {"a@example.com"}, "password": {"secret"}},
			{"name": {"Test User"}, "email": {""}, "password": {"secret"}},
			{"name": {"Test User"}, "email": {"a@example.com"}, "password": {""}},
		} {
			w := doPost(r, "/submitUser", form, nil)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/signup?blank=true", w.Header().Get("Location"))
		}
		assert.Zero(t, repo.count())
	})

	t.Run("name with digits", func(t *testing.T) {
		r, repo := setupTestApp(t)

		form := url.Values{"name": {"user123"}, "email": {"a@example.com"}, "password": {"secret"}}
		w := doPost(r, "/submitUser", form, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/signup?invalid=true", w.Header().Get("Location"))
		assert.Zero(t, repo.count())
	})

	t.Run("success", func(t *testing.T) {
		r, repo := setupTestApp(t)

		form := url.Values{"name": {"Test User"}, "email": {"test@example.com"}, "password": {"secret"}}
		w := doPost(r, "/submitUser", form, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/members", w.Header().Get("Location"))
		require.Equal(t, 1, repo.count())
		assert.Equal(t, models.RoleUser, repo.roleOf(t, 1))

		// The issued session is authenticated and reaches the members page
		cookie := sessionCookie(t, w)
		members := doGet(r, "/members", cookie)
		assert.Equal(t, http.StatusOK, members.Code)
		assert.Contains(t, members.Body.String(), "Hello Test User")
	})

	t.Run("duplicate user", func(t *testing.T) {
		r, repo := setupTestApp(t)
		repo.seed(t, "Test User", "test@example.com", "secret", models.RoleUser)

		form := url.Values{"name": {"Test User"}, "email": {"test@example.com"}, "password": {"secret"}}
		w := doPost(r, "/submitUser", form, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/signup?invalid=true", w.Header().Get("Location"))
		assert.Equal(t, 1, repo.count())
	})

	t.Run("form flags render inline messages", func(t *testing.T) {
		r, _ := setupTestApp(t)

		w := doGet(r, "/signup?blank=true", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Field is blank. Retry.")

		w = doGet(r, "/signup?invalid=true", nil)
		assert.Contains(t, w.Body.String(), "Field is not valid. Retry.")
	})
}

func TestLogin(t *testing.T) {
	t.Run("unknown name", func(t *testing.T) {
		r, _ := setupTestApp(t)

		w := doPost(r, "/loggingin", url.Values{"name": {"Nobody"}, "password": {"secret"}}, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?incorrect=true", w.Header().Get("Location"))
	})

	t.Run("wrong password", func(t *testing.T) {
		r, repo := setupTestApp(t)
		repo.seed(t, "Test User", "test@example.com", "secret", models.RoleUser)

		w := doPost(r, "/loggingin", url.Values{"name": {"Test User"}, "password": {"wrong"}}, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?incorrectPass=true", w.Header().Get("Location"))
	})

	t.Run("blank fields", func(t *testing.T) {
		r, _ := setupTestApp(t)

		w := doPost(r, "/loggingin", url.Values{"name": {""}, "password": {""}}, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?blank=true", w.Header().Get("Location"))
	})

	t.Run("malformed name", func(t *testing.T) {
		r, _ := setupTestApp(t)

		w := doPost(r, "/loggingin", url.Values{"name": {"user123"}, "password": {"secret"}}, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?invalid=true", w.Header().Get("Location"))
	})

	t.Run("success copies stored role", func(t *testing.T) {
		r, repo := setupTestApp(t)
		repo.seed(t, "Admin User", "admin@example.com", "secret", models.RoleAdmin)

		cookie := loginAs(t, r, "Admin User", "secret")

		// The admin role from the stored user is carried by the session
		w := doGet(r, "/admin", cookie)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "admin@example.com")
	})
}

func TestMembersGate(t *testing.T) {
	r, _ := setupTestApp(t)

	w := doGet(r, "/members", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?notLoggedIn=true", w.Header().Get("Location"))

	login := doGet(r, "/login?notLoggedIn=true", nil)
	assert.Contains(t, login.Body.String(), "You must log in.")
}

func TestHome(t *testing.T) {
	r, repo := setupTestApp(t)

	t.Run("anonymous", func(t *testing.T) {
		w := doGet(r, "/", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Sign Up")
		assert.NotContains(t, w.Body.String(), "Hello")
	})

	t.Run("logged in", func(t *testing.T) {
		repo.seed(t, "Test User", "test@example.com", "secret", models.RoleUser)
		cookie := loginAs(t, r, "Test User", "secret")

		w := doGet(r, "/", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Hello Test User")
	})
}

func TestAdminGate(t *testing.T) {
	r, repo := setupTestApp(t)
	repo.seed(t, "Plain User", "user@example.com", "secret", models.RoleUser)
	repo.seed(t, "Admin User", "admin@example.com", "secret", models.RoleAdmin)

	t.Run("not logged in", func(t *testing.T) {
		w := doGet(r, "/admin", nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?notLoggedIn=true", w.Header().Get("Location"))
	})

	t.Run("insufficient role gets 403, not a redirect", func(t *testing.T) {
		cookie := loginAs(t, r, "Plain User", "secret")

		w := doGet(r, "/admin", cookie)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Not authorized - 403")
	})

	t.Run("admin sees the user list", func(t *testing.T) {
		cookie := loginAs(t, r, "Admin User", "secret")

		w := doGet(r, "/admin", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user@example.com")
		assert.Contains(t, w.Body.String(), "admin@example.com")
	})
}

func TestPromoteDemote(t *testing.T) {
	r, repo := setupTestApp(t)
	userID := repo.seed(t, "Plain User", "user@example.com", "secret", models.RoleUser)
	repo.seed(t, "Admin User", "admin@example.com", "secret", models.RoleAdmin)
	cookie := loginAs(t, r, "Admin User", "secret")

	form := url.Values{"userId": {"1"}}

	w := doPost(r, "/promoteUser", form, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	assert.Equal(t, models.RoleAdmin, repo.roleOf(t, userID))

	w = doPost(r, "/demoteUser", form, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	assert.Equal(t, models.RoleUser, repo.roleOf(t, userID))
}

func TestPromoteRequiresAdmin(t *testing.T) {
	r, repo := setupTestApp(t)
	userID := repo.seed(t, "Plain User", "user@example.com", "secret", models.RoleUser)
	cookie := loginAs(t, r, "Plain User", "secret")

	w := doPost(r, "/promoteUser", url.Values{"userId": {"1"}}, cookie)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.RoleUser, repo.roleOf(t, userID))
}

func TestLogout(t *testing.T) {
	r, repo := setupTestApp(t)
	repo.seed(t, "Test User", "test@example.com", "secret", models.RoleUser)
	cookie := loginAs(t, r, "Test User", "secret")

	w := doGet(r, "/logout", cookie)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "You are logged out.")

	// The session is gone server-side; the old cookie is unauthenticated
	members := doGet(r, "/members", cookie)
	assert.Equal(t, http.StatusFound, members.Code)
	assert.Equal(t, "/login?notLoggedIn=true", members.Header().Get("Location"))
}

func TestSlothPages(t *testing.T) {
	r, _ := setupTestApp(t)

	tests := []struct {
		path     string
		contains string
	}{
		{path: "/sloth/1", contains: "Enjoy:"},
		{path: "/sloth/2", contains: "Hmmmm...:"},
		{path: "/sloth/9", contains: "Yaaaaawn:"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := doGet(r, tt.path, nil)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestNotFound(t *testing.T) {
	r, _ := setupTestApp(t)

	w := doGet(r, "/does-not-exist", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found - 404")
}
