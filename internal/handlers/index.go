package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/sbilibin2017/todoapp/internal/logger"
	"github.com/sbilibin2017/todoapp/internal/middlewares"
	"github.com/sbilibin2017/todoapp/internal/models"
	"github.com/sbilibin2017/todoapp/internal/services"
	"github.com/sbilibin2017/todoapp/internal/web"
)

// PageSize is the number of todos shown per page on the web surface.
const PageSize = 5

// TodoLister defines the paged listing the index page needs.
type TodoLister interface {
	List(ctx context.Context, userID uuid.UUID, search string, page, pageSize int) ([]models.TodoDB, int, error)
}

// TodoCreator defines the interface that the create service must implement.
type TodoCreator interface {
	Create(ctx context.Context, userID uuid.UUID, title, description string) (*models.TodoDB, error)
}

func indexPage(user *models.UserDB, todos []models.TodoDB, total int, search string, page int, errMsg string) web.IndexPage {
	totalPages := (total + PageSize - 1) / PageSize
	return web.IndexPage{
		Username:   user.Username,
		Todos:      todos,
		Search:     search,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
		Error:      errMsg,
	}
}

// NewIndexHandler renders the todo list page with search and pagination.
func NewIndexHandler(svc TodoLister, view *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.GetUserFromContext(ctx)
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		search := r.URL.Query().Get("search")

		todos, total, err := svc.List(ctx, user.UserID, search, page, PageSize)
		if err != nil {
			logger.Log.Errorw("failed to list todos", "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		view.Render(w, http.StatusOK, "index.html", indexPage(user, todos, total, search, page, ""))
	}
}

// NewCreateTodoHandler handles the create form on the todo list page.
// A validation failure re-renders the first page with an error message.
func NewCreateTodoHandler(svc TodoCreator, lister TodoLister, view *web.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.GetUserFromContext(ctx)
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		title := r.PostFormValue("title")
		description := r.PostFormValue("desc")

		_, err := svc.Create(ctx, user.UserID, title, description)
		if err != nil {
			if errors.Is(err, services.ErrValidation) {
				todos, total, listErr := lister.List(ctx, user.UserID, "", 1, PageSize)
				if listErr != nil {
					logger.Log.Errorw("failed to list todos", "err", listErr)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				view.Render(w, http.StatusBadRequest, "index.html",
					indexPage(user, todos, total, "", 1, "Title and description are required"))
				return
			}
			logger.Log.Errorw("failed to create todo", "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
