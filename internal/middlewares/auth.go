package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/todoapp/internal/logger"
	"github.com/sbilibin2017/todoapp/internal/models"
)

// Tokener extracts the session token from an incoming request.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// SessionResolver resolves a session token to the authenticated user.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.UserDB, error)
}

type userKey struct{}

// SetUserToContext stores the authenticated user in the context.
func SetUserToContext(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUserFromContext retrieves the authenticated user from the context.
// Returns nil if no user is present.
func GetUserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey{}).(*models.UserDB)
	return user
}

func resolveUser(tokener Tokener, resolver SessionResolver, r *http.Request) (*models.UserDB, error) {
	ctx := r.Context()

	token, err := tokener.GetTokenFromRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	return resolver.CurrentUser(ctx, token)
}

// WebAuthMiddleware guards HTML routes: unauthenticated requests are
// redirected to the login page.
func WebAuthMiddleware(tokener Tokener, resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolveUser(tokener, resolver, r)
			if err != nil {
				logger.Log.Infow("unauthenticated web request", "uri", r.RequestURI, "error", err)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserToContext(r.Context(), user)))
		})
	}
}

// APIAuthMiddleware guards JSON routes: unauthenticated requests get a 401
// with a structured error body.
func APIAuthMiddleware(tokener Tokener, resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolveUser(tokener, resolver, r)
			if err != nil {
				logger.Log.Infow("unauthenticated api request", "uri", r.RequestURI, "error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserToContext(r.Context(), user)))
		})
	}
}
