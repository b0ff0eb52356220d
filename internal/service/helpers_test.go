package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/todoapp/todo-api/internal/repository"
	"github.com/todoapp/todo-api/internal/validation"
)

var (
	userCols = []string{"id", "email", "password_hash", "created_at", "updated_at"}
	tagCols  = []string{"id", "user_id", "name", "created_at"}
	todoCols = []string{"id", "user_id", "title", "description", "status", "priority", "due_date", "photo_url", "created_at", "updated_at"}
	linkCols = []string{"todo_id", "id", "user_id", "name", "created_at"}
)

const (
	lockUserQuery   = `SELECT id FROM users WHERE id = \? FOR UPDATE`
	countTodosQuery = `SELECT COUNT\(\*\) FROM todos WHERE user_id = \?`
	getTodoQuery    = `SELECT .* FROM todos WHERE id = \?`
	getTagQuery     = `SELECT .* FROM tags WHERE id = \?`
	tagsByTodoQuery = `FROM todo_tags tt JOIN tags t ON t.id = tt.tag_id WHERE tt.todo_id IN`
	findOrCreateTag = `INSERT INTO tags \(name, user_id\) VALUES \(\?, \?\)\s+ON DUPLICATE KEY UPDATE`
	linkTagExec     = `INSERT INTO todo_tags \(todo_id, tag_id\) VALUES \(\?, \?\)`
	unlinkTagsExec  = `DELETE FROM todo_tags WHERE todo_id = \?`
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return sqlx.NewDb(db, "mysql"), mock
}

func newTestTodoService(t *testing.T) (*TodoService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	svc := NewTodoService(
		repository.NewTodoRepository(db),
		repository.NewTagRepository(db),
		repository.NewUserRepository(db),
		repository.NewTxManager(db),
		validation.New(),
	)
	return svc, mock
}

func newTestTagService(t *testing.T) (*TagService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	svc := NewTagService(
		repository.NewTagRepository(db),
		repository.NewTxManager(db),
		validation.New(),
	)
	return svc, mock
}

func todoRow(id, userID int64, title string) *sqlmock.Rows {
	return sqlmock.NewRows(todoCols).
		AddRow(id, userID, title, nil, "PENDING", 1, nil, nil, testNow, testNow)
}

func tagRow(id, userID int64, name string) *sqlmock.Rows {
	return sqlmock.NewRows(tagCols).AddRow(id, userID, name, testNow)
}
