package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sbilibin2017/todoapp/internal/logger"
	"github.com/sbilibin2017/todoapp/internal/services"
	"github.com/sbilibin2017/todoapp/internal/web"
)

// Registerer defines the interface that the signup service must implement.
type Registerer interface {
	Register(ctx context.Context, username, password string) (uuid.UUID, error)
}

// SignupForm is the validated signup form body. The password cap matches
// bcrypt's 72-byte input limit so over-long passwords are rejected here
// instead of failing inside the hasher.
type SignupForm struct {
	Username string `validate:"required,max=150"`
	Password string `validate:"required,max=72"`
}

// NewSignupPageHandler renders the signup form.
func NewSignupPageHandler(view *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view.Render(w, http.StatusOK, "signup.html", web.AuthPage{})
	}
}

// NewSignupHandler handles the signup form submission. A taken username
// re-renders the form; success redirects to the login page.
func NewSignupHandler(svc Registerer, view *web.Renderer) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			view.Render(w, http.StatusBadRequest, "signup.html", web.AuthPage{
				Error: "Invalid form submission",
			})
			return
		}

		form := SignupForm{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}
		if err := validate.Struct(form); err != nil {
			view.Render(w, http.StatusBadRequest, "signup.html", web.AuthPage{
				Error: "Username and password are required",
			})
			return
		}

		_, err := svc.Register(r.Context(), form.Username, form.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserAlreadyExists):
				view.Render(w, http.StatusConflict, "signup.html", web.AuthPage{
					Error: "Username already taken",
				})
			default:
				logger.Log.Errorw("signup failed", "err", err)
				view.Render(w, http.StatusInternalServerError, "signup.html", web.AuthPage{
					Error: "Something went wrong, please try again",
				})
			}
			return
		}

		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
