package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cineshelf/cineshelf/internal/user/domain"
	"github.com/cineshelf/cineshelf/pkg/apperror"
	"github.com/cineshelf/cineshelf/pkg/auth"
)

type fakeUserRepository struct {
	users map[uint]*domain.User
}

func (f *fakeUserRepository) Create(user *domain.User) error { return nil }

func (f *fakeUserRepository) FindByID(id uint) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}

func (f *fakeUserRepository) FindByUsername(username string) (*domain.User, error) {
	return nil, apperror.NotFound("user not found")
}

func (f *fakeUserRepository) FindByEmail(email string) (*domain.User, error) {
	return nil, apperror.NotFound("user not found")
}

func (f *fakeUserRepository) FindAll(params domain.ListParams) ([]domain.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserRepository) Update(user *domain.User) error { return nil }

func (f *fakeUserRepository) Delete(id uint) error { return nil }

func (f *fakeUserRepository) Count() (int64, error) { return 0, nil }

func (f *fakeUserRepository) CountByRole(role string) (int64, error) { return 0, nil }

func (f *fakeUserRepository) CountActive() (int64, error) { return 0, nil }

func (f *fakeUserRepository) CountCreatedSince(since time.Time) (int64, error) { return 0, nil }

func setup(t *testing.T) (*Authenticator, *auth.TokenManager, *fakeUserRepository) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	repo := &fakeUserRepository{users: map[uint]*domain.User{
		1: {ID: 1, Username: "alice", Role: domain.RoleUser, IsActive: true},
		2: {ID: 2, Username: "root", Role: domain.RoleAdmin, IsActive: true},
		3: {ID: 3, Username: "benched", Role: domain.RoleAdmin, IsActive: false},
	}}
	return NewAuthenticator(tokens, repo), tokens, repo
}

func echoUser(t *testing.T, want uint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok {
			t.Error("no user in context")
			return
		}
		if user.ID != want {
			t.Errorf("user id = %d, want %d", user.ID, want)
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuth(t *testing.T) {
	authn, tokens, _ := setup(t)

	t.Run("accepts bearer header", func(t *testing.T) {
		token, _ := tokens.Generate(1)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		authn.Auth(echoUser(t, 1))(rec, r)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("accepts token cookie", func(t *testing.T) {
		token, _ := tokens.Generate(1)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "token", Value: token})
		rec := httptest.NewRecorder()

		authn.Auth(echoUser(t, 1))(rec, r)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("rejects missing token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		authn.Auth(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler reached without token")
		})(rec, r)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("rejects token for deleted user", func(t *testing.T) {
		token, _ := tokens.Generate(99)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		authn.Auth(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler reached for deleted user")
		})(rec, r)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("rejects forged token", func(t *testing.T) {
		forged := auth.NewTokenManager("other-secret", time.Hour)
		token, _ := forged.Generate(1)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		authn.Auth(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler reached with forged token")
		})(rec, r)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestAdmin(t *testing.T) {
	authn, tokens, _ := setup(t)

	t.Run("accepts active admin", func(t *testing.T) {
		token, _ := tokens.Generate(2)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		authn.Admin(echoUser(t, 2))(rec, r)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("rejects regular user", func(t *testing.T) {
		token, _ := tokens.Generate(1)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		authn.Admin(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler reached by non-admin")
		})(rec, r)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("rejects deactivated admin", func(t *testing.T) {
		token, _ := tokens.Generate(3)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		authn.Admin(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler reached by deactivated admin")
		})(rec, r)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestOptionalAuth(t *testing.T) {
	authn, tokens, _ := setup(t)

	t.Run("anonymous request passes through", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		authn.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFrom(r.Context()); ok {
				t.Error("unexpected user in context")
			}
			w.WriteHeader(http.StatusOK)
		})(rec, r)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("valid token attaches the user", func(t *testing.T) {
		token, _ := tokens.Generate(1)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		authn.OptionalAuth(echoUser(t, 1))(rec, r)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("bad token is ignored", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		authn.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFrom(r.Context()); ok {
				t.Error("unexpected user in context")
			}
			w.WriteHeader(http.StatusOK)
		})(rec, r)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
