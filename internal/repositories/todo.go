package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/todoapp/internal/logger"
	"github.com/sbilibin2017/todoapp/internal/models"
)

// TodoReadRepository handles todo read operations.
// Every query is filtered by the owning user's id.
type TodoReadRepository struct {
	db *sqlx.DB
}

func NewTodoReadRepository(db *sqlx.DB) *TodoReadRepository {
	return &TodoReadRepository{db: db}
}

// List returns the user's todos whose title contains search (empty matches all),
// newest first, limited to the given window.
func (r *TodoReadRepository) List(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]models.TodoDB, error) {
	const query = `
		SELECT todo_id, user_id, title, description, completed, created_at, updated_at
		FROM todos
		WHERE user_id = $1 AND title ILIKE '%' || $2 || '%'
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	todos := make([]models.TodoDB, 0)
	err := r.db.SelectContext(ctx, &todos, query, userID, search, limit, offset)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, search, limit, offset},
		"rows", len(todos),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return todos, nil
}

// Count returns the number of the user's todos matching search.
func (r *TodoReadRepository) Count(ctx context.Context, userID uuid.UUID, search string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM todos
		WHERE user_id = $1 AND title ILIKE '%' || $2 || '%'
	`

	var total int
	err := r.db.GetContext(ctx, &total, query, userID, search)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, search},
		"result", total,
		"error", err,
	)

	if err != nil {
		return 0, err
	}

	return total, nil
}

// GetByID returns the user's todo with the given id, or nil when no such
// todo is owned by the user.
func (r *TodoReadRepository) GetByID(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error) {
	const query = `
		SELECT todo_id, user_id, title, description, completed, created_at, updated_at
		FROM todos
		WHERE todo_id = $1 AND user_id = $2
	`

	var todo models.TodoDB
	err := r.db.GetContext(ctx, &todo, query, todoID, userID)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{todoID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &todo, nil
}

// TodoWriteRepository handles todo write operations. When a transaction is
// present in the context it is used instead of the pool connection.
type TodoWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTodoWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TodoWriteRepository {
	return &TodoWriteRepository{db: db, txGetter: txGetter}
}

func (r *TodoWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new todo for the user and returns the stored row.
func (r *TodoWriteRepository) Save(ctx context.Context, userID uuid.UUID, title, description string) (*models.TodoDB, error) {
	const query = `
		INSERT INTO todos (todo_id, user_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW())
		RETURNING todo_id, user_id, title, description, completed, created_at, updated_at
	`

	var todo models.TodoDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &todo, query, uuid.New(), userID, title, description)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, title},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &todo, nil
}

// Update sets the title and description of the user's todo and refreshes
// updated_at. Returns the number of affected rows (0 on ownership miss).
func (r *TodoWriteRepository) Update(ctx context.Context, userID, todoID uuid.UUID, title, description string) (int64, error) {
	const query = `
		UPDATE todos
		SET title = $3, description = $4, updated_at = NOW()
		WHERE todo_id = $1 AND user_id = $2
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, todoID, userID, title, description)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{todoID, userID, title},
		"result", rowsAffected,
		"error", err,
	)

	return rowsAffected, err
}

// ToggleCompleted flips the completed flag of the user's todo in a single
// statement. Returns the number of affected rows (0 on ownership miss).
func (r *TodoWriteRepository) ToggleCompleted(ctx context.Context, userID, todoID uuid.UUID) (int64, error) {
	const query = `
		UPDATE todos
		SET completed = NOT completed, updated_at = NOW()
		WHERE todo_id = $1 AND user_id = $2
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, todoID, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{todoID, userID},
		"result", rowsAffected,
		"error", err,
	)

	return rowsAffected, err
}

// Delete removes the user's todo. Returns the number of affected rows
// (0 on ownership miss).
func (r *TodoWriteRepository) Delete(ctx context.Context, userID, todoID uuid.UUID) (int64, error) {
	const query = `
		DELETE FROM todos
		WHERE todo_id = $1 AND user_id = $2
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, todoID, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{todoID, userID},
		"result", rowsAffected,
		"error", err,
	)

	return rowsAffected, err
}
