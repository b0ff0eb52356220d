package repository

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/todoapp/todo-api/internal/model"
)

var ErrTodoNotFound = errors.New("todo not found")

const todoColumns = `id, user_id, title, description, status, priority, due_date, photo_url, created_at, updated_at`

// TodoRepository handles todo and todo_tags persistence operations.
type TodoRepository struct {
	db querier
}

// NewTodoRepository creates a new TodoRepository.
func NewTodoRepository(db *sqlx.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *TodoRepository) WithTx(tx *sqlx.Tx) *TodoRepository {
	return &TodoRepository{db: tx}
}

// ListByUser retrieves all todos of a user, newest first.
func (r *TodoRepository) ListByUser(ctx context.Context, userID int64) ([]model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	todos := []model.Todo{}
	if err := sqlx.SelectContext(ctx, r.db, &todos, query, userID); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetByID retrieves a todo by its ID.
func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`

	todo := &model.Todo{}
	if err := sqlx.GetContext(ctx, r.db, todo, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

// CountByUser returns how many todos the user owns.
func (r *TodoRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM todos WHERE user_id = ?`

	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, query, userID); err != nil {
		return 0, err
	}
	return n, nil
}

// Create inserts a todo and sets its generated ID.
func (r *TodoRepository) Create(ctx context.Context, todo *model.Todo) error {
	query := `INSERT INTO todos (user_id, title, description, status, priority, due_date, photo_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.Status,
		todo.Priority,
		todo.DueDate,
		todo.PhotoURL,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	todo.ID = id
	return nil
}

// Update applies a partial update. updated_at is always bumped so that a
// tag-only change is still visible as a modification.
func (r *TodoRepository) Update(ctx context.Context, id int64, changes model.TodoChanges) error {
	query, args, err := sq.Update("todos").
		SetMap(changeColumns(changes)).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP(3)")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func changeColumns(c model.TodoChanges) map[string]interface{} {
	cols := make(map[string]interface{})
	if c.Title != nil {
		cols["title"] = *c.Title
	}
	if c.Status != nil {
		cols["status"] = *c.Status
	}
	if c.Priority != nil {
		cols["priority"] = *c.Priority
	}
	if c.Description.Set {
		cols["description"] = c.Description.Value
	}
	if c.DueDate.Set {
		cols["due_date"] = c.DueDate.Value
	}
	if c.PhotoURL.Set {
		cols["photo_url"] = c.PhotoURL.Value
	}
	return cols
}

// Delete removes a todo.
func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM todos WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// LinkTag attaches a tag to a todo.
func (r *TodoRepository) LinkTag(ctx context.Context, todoID, tagID int64) error {
	query := `INSERT INTO todo_tags (todo_id, tag_id) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, todoID, tagID); err != nil {
		if isMissingParentError(err) {
			return ErrTagNotFound
		}
		return err
	}
	return nil
}

// UnlinkAllTags removes every tag link of a todo.
func (r *TodoRepository) UnlinkAllTags(ctx context.Context, todoID int64) error {
	query := `DELETE FROM todo_tags WHERE todo_id = ?`

	_, err := r.db.ExecContext(ctx, query, todoID)
	return err
}
