package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sbilibin2017/todoapp/internal/logger"
	"github.com/sbilibin2017/todoapp/internal/middlewares"
	"github.com/sbilibin2017/todoapp/internal/models"
	"github.com/sbilibin2017/todoapp/internal/services"
)

// APITodoLister defines the listing the JSON API needs.
type APITodoLister interface {
	ListAll(ctx context.Context, userID uuid.UUID) ([]models.TodoDB, error)
}

// TodoItemResponse represents one todo in the JSON API
// swagger:model TodoItemResponse
type TodoItemResponse struct {
	// Todo identifier
	ID uuid.UUID `json:"id"`

	// Title
	// default: Buy milk
	Title string `json:"title"`

	// Description
	// default: 2 liters
	Desc string `json:"desc"`

	// Completion flag
	// default: false
	Completed bool `json:"completed"`

	// Creation date, YYYY-MM-DD
	// default: 2025-01-02
	CreatedAt string `json:"created_at"`
}

// CreateTodoRequest represents the JSON body for creating a todo
// swagger:model CreateTodoRequest
type CreateTodoRequest struct {
	// Title
	// required: true
	// default: Buy milk
	Title string `json:"title" validate:"required,max=200"`

	// Description
	// required: true
	// default: 2 liters
	Desc string `json:"desc" validate:"required,max=500"`
}

// CreateTodoResponse represents a successful todo creation response
// swagger:model CreateTodoResponse
type CreateTodoResponse struct {
	// Success message
	// default: Todo created
	Message string `json:"message"`
}

// TodoErrorResponse represents an error response of the todo API
// swagger:model TodoErrorResponse
type TodoErrorResponse struct {
	// Error message
	// default: Invalid JSON
	Error string `json:"error"`
}

// NewListTodosAPIHandler returns an HTTP handler listing the user's todos.
// @Summary List todos
// @Description Returns all todos owned by the authenticated user, newest first.
// @Tags todos
// @Produce json
// @Success 200 {array} handlers.TodoItemResponse "User's todos"
// @Failure 401 {object} handlers.TodoErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.TodoErrorResponse "Internal server error"
// @Router /api/todos [get]
// @Security BearerAuth
func NewListTodosAPIHandler(svc APITodoLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user := middlewares.GetUserFromContext(ctx)
		if user == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TodoErrorResponse{Error: "Unauthorized"})
			return
		}

		todos, err := svc.ListAll(ctx, user.UserID)
		if err != nil {
			logger.Log.Errorw("failed to list todos", "userID", user.UserID, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(TodoErrorResponse{Error: "Internal server error"})
			return
		}

		resp := make([]TodoItemResponse, 0, len(todos))
		for _, t := range todos {
			resp = append(resp, TodoItemResponse{
				ID:        t.TodoID,
				Title:     t.Title,
				Desc:      t.Description,
				Completed: t.Completed,
				CreatedAt: t.CreatedAt.Format("2006-01-02"),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}

// NewCreateTodoAPIHandler returns an HTTP handler creating a todo from JSON.
// @Summary Create todo
// @Description Creates a todo owned by the authenticated user. Unknown body fields are rejected.
// @Tags todos
// @Accept json
// @Produce json
// @Param createTodoRequest body handlers.CreateTodoRequest true "Todo creation request"
// @Success 201 {object} handlers.CreateTodoResponse "Todo created"
// @Failure 400 {object} handlers.TodoErrorResponse "Malformed body or missing fields"
// @Failure 401 {object} handlers.TodoErrorResponse "Unauthorized"
// @Router /api/todos [post]
// @Security BearerAuth
func NewCreateTodoAPIHandler(svc TodoCreator) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("Content-Type", "application/json")

		user := middlewares.GetUserFromContext(ctx)
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TodoErrorResponse{Error: "Unauthorized"})
			return
		}

		var req CreateTodoRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TodoErrorResponse{Error: "Invalid JSON"})
			return
		}

		if err := validate.Struct(req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TodoErrorResponse{Error: "Title and desc are required"})
			return
		}

		_, err := svc.Create(ctx, user.UserID, req.Title, req.Desc)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrValidation):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TodoErrorResponse{Error: "Title and desc are required"})
			default:
				logger.Log.Errorw("failed to create todo", "userID", user.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TodoErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CreateTodoResponse{Message: "Todo created"})
	}
}
