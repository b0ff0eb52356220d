package repository

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/todoapp/todo-api/internal/model"
)

var (
	ErrTagNotFound   = errors.New("tag not found")
	ErrDuplicateTag  = errors.New("tag already exists")
	ErrTagReferenced = errors.New("tag is referenced by todos")
)

const tagColumns = `id, user_id, name, created_at`

// TagRepository handles tag persistence operations.
type TagRepository struct {
	db querier
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db *sqlx.DB) *TagRepository {
	return &TagRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *TagRepository) WithTx(tx *sqlx.Tx) *TagRepository {
	return &TagRepository{db: tx}
}

// ListByUser retrieves all tags of a user ordered by name.
func (r *TagRepository) ListByUser(ctx context.Context, userID int64) ([]model.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags WHERE user_id = ? ORDER BY name ASC`

	tags := []model.Tag{}
	if err := sqlx.SelectContext(ctx, r.db, &tags, query, userID); err != nil {
		return nil, err
	}
	return tags, nil
}

// GetByID retrieves a tag by its ID.
func (r *TagRepository) GetByID(ctx context.Context, id int64) (*model.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags WHERE id = ?`

	tag := &model.Tag{}
	if err := sqlx.GetContext(ctx, r.db, tag, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// Create inserts a new tag. A second tag with the same (name, user_id) is
// rejected by the unique index with ErrDuplicateTag.
func (r *TagRepository) Create(ctx context.Context, tag *model.Tag) error {
	query := `INSERT INTO tags (name, user_id) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, tag.Name, tag.UserID)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateTag
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*tag = *created
	return nil
}

// Rename changes a tag's name. Renaming to the current name matches no row
// and reports ErrTagNotFound, so callers skip unchanged names.
func (r *TagRepository) Rename(ctx context.Context, id int64, name string) error {
	query := `UPDATE tags SET name = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, name, id)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateTag
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTagNotFound
	}
	return nil
}

// FindOrCreate returns the id of the user's tag called name, inserting it when
// missing. It is a single statement: on a duplicate key MySQL leaves the row
// untouched and LAST_INSERT_ID(id) hands back the existing id, so concurrent
// callers can never produce two rows for the same (name, user_id).
func (r *TagRepository) FindOrCreate(ctx context.Context, userID int64, name string) (int64, error) {
	query := `INSERT INTO tags (name, user_id) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`

	result, err := r.db.ExecContext(ctx, query, name, userID)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CountLinks returns how many todos reference the tag.
func (r *TagRepository) CountLinks(ctx context.Context, tagID int64) (int, error) {
	query := `SELECT COUNT(*) FROM todo_tags WHERE tag_id = ?`

	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, query, tagID); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a tag. The foreign key on todo_tags blocks deleting a tag
// that is still linked.
func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM tags WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isReferencedRowError(err) {
			return ErrTagReferenced
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTagNotFound
	}
	return nil
}

type todoTagRow struct {
	TodoID int64 `db:"todo_id"`
	model.Tag
}

// ListByTodoIDs loads the tags of several todos in one query, keyed by todo id.
func (r *TagRepository) ListByTodoIDs(ctx context.Context, todoIDs []int64) (map[int64][]model.Tag, error) {
	result := make(map[int64][]model.Tag, len(todoIDs))
	if len(todoIDs) == 0 {
		return result, nil
	}

	query, args, err := sq.Select("tt.todo_id", "t.id", "t.user_id", "t.name", "t.created_at").
		From("todo_tags tt").
		Join("tags t ON t.id = tt.tag_id").
		Where(sq.Eq{"tt.todo_id": todoIDs}).
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []todoTagRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.TodoID] = append(result[row.TodoID], row.Tag)
	}
	return result, nil
}
