package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sbilibin2017/todoapp/internal/logger"
	"github.com/sbilibin2017/todoapp/internal/models"
)

// Error variables
var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrValidation   = errors.New("title and description are required")
)

// Field length limits, matching the column definitions.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 500
)

// TodoReader defines read-only operations for todos.
type TodoReader interface {
	List(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]models.TodoDB, error)
	Count(ctx context.Context, userID uuid.UUID, search string) (int, error)
	GetByID(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error)
}

// TodoWriter defines write operations for todos.
type TodoWriter interface {
	Save(ctx context.Context, userID uuid.UUID, title, description string) (*models.TodoDB, error)
	Update(ctx context.Context, userID, todoID uuid.UUID, title, description string) (int64, error)
	ToggleCompleted(ctx context.Context, userID, todoID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, todoID uuid.UUID) (int64, error)
}

// TodoService enforces ownership and validation on todo operations.
type TodoService struct {
	reader TodoReader
	writer TodoWriter
}

// NewTodoService creates a new TodoService instance.
func NewTodoService(reader TodoReader, writer TodoWriter) *TodoService {
	return &TodoService{
		reader: reader,
		writer: writer,
	}
}

func validateFields(title, description string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return ErrValidation
	}
	if len(title) > MaxTitleLen || len(description) > MaxDescriptionLen {
		return ErrValidation
	}
	return nil
}

// List returns the requested page of the user's todos whose title contains
// search, newest first, along with the total match count. Pages are 1-indexed;
// out-of-range pages yield an empty slice.
func (svc *TodoService) List(ctx context.Context, userID uuid.UUID, search string, page, pageSize int) ([]models.TodoDB, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	total, err := svc.reader.Count(ctx, userID, search)
	if err != nil {
		logger.Log.Errorw("failed to count todos", "err", err)
		return nil, 0, err
	}

	todos, err := svc.reader.List(ctx, userID, search, pageSize, (page-1)*pageSize)
	if err != nil {
		logger.Log.Errorw("failed to list todos", "err", err)
		return nil, 0, err
	}

	return todos, total, nil
}

// ListAll returns every todo owned by the user, newest first.
func (svc *TodoService) ListAll(ctx context.Context, userID uuid.UUID) ([]models.TodoDB, error) {
	total, err := svc.reader.Count(ctx, userID, "")
	if err != nil {
		logger.Log.Errorw("failed to count todos", "err", err)
		return nil, err
	}
	if total == 0 {
		return []models.TodoDB{}, nil
	}

	todos, err := svc.reader.List(ctx, userID, "", total, 0)
	if err != nil {
		logger.Log.Errorw("failed to list todos", "err", err)
		return nil, err
	}

	return todos, nil
}

// Get returns the user's todo or ErrTodoNotFound on an ownership miss.
func (svc *TodoService) Get(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error) {
	todo, err := svc.reader.GetByID(ctx, userID, todoID)
	if err != nil {
		logger.Log.Errorw("failed to get todo", "err", err)
		return nil, err
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}
	return todo, nil
}

// Create persists a new todo owned by the user.
func (svc *TodoService) Create(ctx context.Context, userID uuid.UUID, title, description string) (*models.TodoDB, error) {
	if err := validateFields(title, description); err != nil {
		return nil, err
	}

	todo, err := svc.writer.Save(ctx, userID, title, description)
	if err != nil {
		logger.Log.Errorw("failed to save todo", "err", err)
		return nil, err
	}

	return todo, nil
}

// Update changes the title and description of the user's todo.
func (svc *TodoService) Update(ctx context.Context, userID, todoID uuid.UUID, title, description string) error {
	if err := validateFields(title, description); err != nil {
		return err
	}

	rows, err := svc.writer.Update(ctx, userID, todoID, title, description)
	if err != nil {
		logger.Log.Errorw("failed to update todo", "err", err)
		return err
	}
	if rows == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// Toggle flips the completed flag of the user's todo.
func (svc *TodoService) Toggle(ctx context.Context, userID, todoID uuid.UUID) error {
	rows, err := svc.writer.ToggleCompleted(ctx, userID, todoID)
	if err != nil {
		logger.Log.Errorw("failed to toggle todo", "err", err)
		return err
	}
	if rows == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// Delete removes the user's todo permanently.
func (svc *TodoService) Delete(ctx context.Context, userID, todoID uuid.UUID) error {
	rows, err := svc.writer.Delete(ctx, userID, todoID)
	if err != nil {
		logger.Log.Errorw("failed to delete todo", "err", err)
		return err
	}
	if rows == 0 {
		return ErrTodoNotFound
	}

	return nil
}
