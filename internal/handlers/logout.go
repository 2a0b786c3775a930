package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/todoapp/internal/jwt"
	"github.com/sbilibin2017/todoapp/internal/logger"
)

// Logouter defines the interface that the logout service must implement.
type Logouter interface {
	Logout(ctx context.Context, token string) error
}

// LogoutTokener extracts the session token from the request.
type LogoutTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// NewLogoutHandler revokes the current session and clears the session cookie.
// Logging out without a valid session still redirects to the login page.
func NewLogoutHandler(svc Logouter, tokener LogoutTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if token, err := tokener.GetTokenFromRequest(ctx, r); err == nil {
			if err := svc.Logout(ctx, token); err != nil {
				logger.Log.Errorw("failed to revoke session", "err", err)
			}
		}

		http.SetCookie(w, jwt.ExpiredSessionCookie())
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
