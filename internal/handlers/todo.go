package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sbilibin2017/todoapp/internal/logger"
	"github.com/sbilibin2017/todoapp/internal/middlewares"
	"github.com/sbilibin2017/todoapp/internal/models"
	"github.com/sbilibin2017/todoapp/internal/services"
	"github.com/sbilibin2017/todoapp/internal/web"
)

// TodoGetter defines the single-todo lookup the edit page needs.
type TodoGetter interface {
	Get(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error)
}

// TodoUpdater defines the interface that the update service must implement.
type TodoUpdater interface {
	Update(ctx context.Context, userID, todoID uuid.UUID, title, description string) error
}

// TodoToggler defines the interface that the toggle service must implement.
type TodoToggler interface {
	Toggle(ctx context.Context, userID, todoID uuid.UUID) error
}

// TodoDeleter defines the interface that the delete service must implement.
type TodoDeleter interface {
	Delete(ctx context.Context, userID, todoID uuid.UUID) error
}

// todoRequest resolves the authenticated user and the {id} URL parameter.
// A malformed id is indistinguishable from a missing todo and yields a 404.
func todoRequest(w http.ResponseWriter, r *http.Request) (*models.UserDB, uuid.UUID, bool) {
	user := middlewares.GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, uuid.Nil, false
	}

	todoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, uuid.Nil, false
	}

	return user, todoID, true
}

// NewUpdateTodoPageHandler renders the edit form for one of the user's todos.
func NewUpdateTodoPageHandler(svc TodoGetter, view *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, todoID, ok := todoRequest(w, r)
		if !ok {
			return
		}

		todo, err := svc.Get(r.Context(), user.UserID, todoID)
		if err != nil {
			if errors.Is(err, services.ErrTodoNotFound) {
				http.NotFound(w, r)
				return
			}
			logger.Log.Errorw("failed to get todo", "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		view.Render(w, http.StatusOK, "update.html", web.UpdatePage{Todo: *todo})
	}
}

// NewUpdateTodoHandler applies the edit form to one of the user's todos.
func NewUpdateTodoHandler(svc TodoUpdater, getter TodoGetter, view *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, todoID, ok := todoRequest(w, r)
		if !ok {
			return
		}
		ctx := r.Context()

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		title := r.PostFormValue("title")
		description := r.PostFormValue("desc")

		err := svc.Update(ctx, user.UserID, todoID, title, description)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTodoNotFound):
				http.NotFound(w, r)
			case errors.Is(err, services.ErrValidation):
				todo, getErr := getter.Get(ctx, user.UserID, todoID)
				if getErr != nil {
					http.NotFound(w, r)
					return
				}
				view.Render(w, http.StatusBadRequest, "update.html", web.UpdatePage{
					Todo:  *todo,
					Error: "Title and description are required",
				})
			default:
				logger.Log.Errorw("failed to update todo", "err", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// NewToggleTodoHandler flips the completed flag of one of the user's todos.
func NewToggleTodoHandler(svc TodoToggler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, todoID, ok := todoRequest(w, r)
		if !ok {
			return
		}

		err := svc.Toggle(r.Context(), user.UserID, todoID)
		if err != nil {
			if errors.Is(err, services.ErrTodoNotFound) {
				http.NotFound(w, r)
				return
			}
			logger.Log.Errorw("failed to toggle todo", "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// NewDeleteTodoHandler removes one of the user's todos.
func NewDeleteTodoHandler(svc TodoDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, todoID, ok := todoRequest(w, r)
		if !ok {
			return
		}

		err := svc.Delete(r.Context(), user.UserID, todoID)
		if err != nil {
			if errors.Is(err, services.ErrTodoNotFound) {
				http.NotFound(w, r)
				return
			}
			logger.Log.Errorw("failed to delete todo", "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
