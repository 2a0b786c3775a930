package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sbilibin2017/todoapp/internal/jwt"
	"github.com/sbilibin2017/todoapp/internal/logger"
	"github.com/sbilibin2017/todoapp/internal/services"
	"github.com/sbilibin2017/todoapp/internal/web"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// NewLoginPageHandler renders the login form.
func NewLoginPageHandler(view *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view.Render(w, http.StatusOK, "login.html", web.AuthPage{})
	}
}

// NewLoginHandler handles the login form submission. On success the session
// token is set as a cookie and the user is redirected to the todo list.
func NewLoginHandler(svc Loginer, sessionExp time.Duration, view *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			view.Render(w, http.StatusBadRequest, "login.html", web.AuthPage{
				Error: "Invalid form submission",
			})
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")

		token, err := svc.Login(r.Context(), username, password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials),
				errors.Is(err, services.ErrUserDoesNotExist):
				view.Render(w, http.StatusUnauthorized, "login.html", web.AuthPage{
					Error: "Invalid username or password",
				})
			default:
				logger.Log.Errorw("login failed", "err", err)
				view.Render(w, http.StatusInternalServerError, "login.html", web.AuthPage{
					Error: "Something went wrong, please try again",
				})
			}
			return
		}

		http.SetCookie(w, jwt.NewSessionCookie(token, sessionExp))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
