package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cineshelf/cineshelf/internal/user/domain"
	"github.com/cineshelf/cineshelf/pkg/auth"
	"github.com/cineshelf/cineshelf/pkg/response"
)

type contextKey string

const userKey contextKey = "current_user"

// Authenticator resolves request identity against the live user store.
// Token claims carry only the user id; everything else (role, active
// status) is read from the database on every request.
type Authenticator struct {
	tokens *auth.TokenManager
	users  domain.UserRepository
}

// NewAuthenticator creates the auth middleware set.
func NewAuthenticator(tokens *auth.TokenManager, users domain.UserRepository) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// UserFrom extracts the authenticated user from the request context.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// Auth requires a valid token belonging to an existing user.
func (a *Authenticator) Auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := a.resolve(r)
		if err != nil {
			response.Fail(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

// Admin requires an active admin account.
func (a *Authenticator) Admin(next http.HandlerFunc) http.HandlerFunc {
	return a.Auth(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFrom(r.Context())
		if !user.IsAdmin() || !user.IsActive {
			response.Fail(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OptionalAuth resolves identity when a token is present but never
// rejects the request. Used by public endpoints that personalize
// results for logged-in users.
func (a *Authenticator) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user, err := a.resolve(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), userKey, user))
		}
		next.ServeHTTP(w, r)
	}
}

type authError string

func (e authError) Error() string { return string(e) }

func (a *Authenticator) resolve(r *http.Request) (*domain.User, error) {
	token := extractToken(r)
	if token == "" {
		return nil, authError("Authorization token required")
	}

	claims, err := a.tokens.Validate(token)
	if err != nil {
		return nil, authError("Invalid or expired token")
	}

	user, err := a.users.FindByID(claims.UserID)
	if err != nil {
		return nil, authError("User no longer exists")
	}
	return user, nil
}

// extractToken reads the bearer token from the Authorization header,
// falling back to the token cookie.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}

	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	return ""
}
