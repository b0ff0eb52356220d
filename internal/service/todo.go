package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	"github.com/todoapp/todo-api/internal/model"
	"github.com/todoapp/todo-api/internal/repository"
	"github.com/todoapp/todo-api/internal/validation"
)

// MaxTodosPerUser caps how many todos one user may own.
const MaxTodosPerUser = 50

// Length limits for nullable text fields, matching the create request tags.
const (
	maxDescriptionLength = 10000
	maxPhotoURLLength    = 2048
)

// TodoService handles todo business logic. Every multi-statement mutation
// runs in a single transaction.
type TodoService struct {
	todos    *repository.TodoRepository
	tags     *repository.TagRepository
	users    *repository.UserRepository
	tx       *repository.TxManager
	validate *validation.Validator
}

// NewTodoService creates a new TodoService.
func NewTodoService(
	todos *repository.TodoRepository,
	tags *repository.TagRepository,
	users *repository.UserRepository,
	tx *repository.TxManager,
	validate *validation.Validator,
) *TodoService {
	return &TodoService{
		todos:    todos,
		tags:     tags,
		users:    users,
		tx:       tx,
		validate: validate,
	}
}

// ListTodos returns the user's todos with their tags, newest first.
func (s *TodoService) ListTodos(ctx context.Context, userID int64) ([]model.TodoResponse, error) {
	todos, err := s.todos.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(todos))
	for i := range todos {
		ids[i] = todos[i].ID
	}

	tagsByTodo, err := s.tags.ListByTodoIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return todosToResponse(todos, tagsByTodo), nil
}

// GetTodo returns one of the user's todos with its tags.
func (s *TodoService) GetTodo(ctx context.Context, userID, id int64) (model.TodoResponse, error) {
	todo, err := s.loadOwned(ctx, s.todos, userID, id)
	if err != nil {
		return model.TodoResponse{}, err
	}
	return s.withTags(ctx, s.tags, todo)
}

// CreateTodo creates a todo, resolving and linking its tags in the same transaction.
func (s *TodoService) CreateTodo(ctx context.Context, userID int64, req model.CreateTodoRequest) (model.TodoResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return model.TodoResponse{}, ErrTitleRequired
	}
	if err := s.validate.Validate(req); err != nil {
		return model.TodoResponse{}, err
	}

	todo := &model.Todo{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusPending,
		Priority:    model.PriorityLow,
		PhotoURL:    req.PhotoURL,
	}
	if req.Status != "" {
		if !req.Status.Valid() {
			return model.TodoResponse{}, ErrInvalidStatus
		}
		todo.Status = req.Status
	}
	if req.Priority != 0 {
		if !model.ValidPriority(req.Priority) {
			return model.TodoResponse{}, ErrInvalidPriority
		}
		todo.Priority = req.Priority
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			return model.TodoResponse{}, err
		}
		todo.DueDate = &due
	}

	var resp model.TodoResponse
	err := s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		todos, tags := s.todos.WithTx(tx), s.tags.WithTx(tx)

		if err := s.users.WithTx(tx).LockByID(ctx, userID); err != nil {
			return err
		}

		count, err := todos.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		if count >= MaxTodosPerUser {
			return ErrTodoLimitReached
		}

		if err := todos.Create(ctx, todo); err != nil {
			return err
		}
		if err := linkTags(ctx, todos, tags, userID, todo.ID, req.Tags); err != nil {
			return err
		}

		created, err := todos.GetByID(ctx, todo.ID)
		if err != nil {
			return err
		}
		resp, err = s.withTags(ctx, tags, created)
		return err
	})
	if err != nil {
		return model.TodoResponse{}, translateTodoError(err)
	}

	return resp, nil
}

// UpdateTodo applies a partial update. When tags are supplied they replace the
// todo's whole tag set.
func (s *TodoService) UpdateTodo(ctx context.Context, userID, id int64, req model.UpdateTodoRequest) (model.TodoResponse, error) {
	changes, err := s.todoChanges(req)
	if err != nil {
		return model.TodoResponse{}, err
	}

	var resp model.TodoResponse
	err = s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		todos, tags := s.todos.WithTx(tx), s.tags.WithTx(tx)

		if _, err := s.loadOwned(ctx, todos, userID, id); err != nil {
			return err
		}

		if err := todos.Update(ctx, id, changes); err != nil {
			return err
		}

		if req.Tags != nil {
			if err := todos.UnlinkAllTags(ctx, id); err != nil {
				return err
			}
			if err := linkTags(ctx, todos, tags, userID, id, *req.Tags); err != nil {
				return err
			}
		}

		updated, err := todos.GetByID(ctx, id)
		if err != nil {
			return err
		}
		resp, err = s.withTags(ctx, tags, updated)
		return err
	})
	if err != nil {
		return model.TodoResponse{}, translateTodoError(err)
	}

	return resp, nil
}

// DeleteTodo removes the todo and its tag links as one unit of work.
func (s *TodoService) DeleteTodo(ctx context.Context, userID, id int64) error {
	err := s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		todos := s.todos.WithTx(tx)

		if _, err := s.loadOwned(ctx, todos, userID, id); err != nil {
			return err
		}
		if err := todos.UnlinkAllTags(ctx, id); err != nil {
			return err
		}
		return todos.Delete(ctx, id)
	})
	return translateTodoError(err)
}

func (s *TodoService) todoChanges(req model.UpdateTodoRequest) (model.TodoChanges, error) {
	if err := s.validate.Validate(req); err != nil {
		return model.TodoChanges{}, err
	}

	if err := checkLength("description", req.Description, maxDescriptionLength); err != nil {
		return model.TodoChanges{}, err
	}
	if err := checkLength("photoUrl", req.PhotoURL, maxPhotoURLLength); err != nil {
		return model.TodoChanges{}, err
	}

	changes := model.TodoChanges{
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return model.TodoChanges{}, ErrTitleRequired
		}
		changes.Title = &title
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return model.TodoChanges{}, ErrInvalidStatus
		}
		changes.Status = req.Status
	}
	if req.Priority != nil {
		if !model.ValidPriority(*req.Priority) {
			return model.TodoChanges{}, ErrInvalidPriority
		}
		changes.Priority = req.Priority
	}
	if req.DueDate.Set {
		if req.DueDate.Value == nil || *req.DueDate.Value == "" {
			changes.DueDate = model.Null[time.Time]()
		} else {
			due, err := parseDueDate(*req.DueDate.Value)
			if err != nil {
				return model.TodoChanges{}, err
			}
			changes.DueDate = model.Some(due)
		}
	}

	return changes, nil
}

// checkLength rejects a set optional string longer than max characters.
func checkLength(field string, v model.Optional[string], max int) error {
	if v.Value != nil && utf8.RuneCountInString(*v.Value) > max {
		return validation.Field(field, fmt.Sprintf("must not exceed %d characters", max))
	}
	return nil
}

// loadOwned fetches a todo and checks that userID owns it.
func (s *TodoService) loadOwned(ctx context.Context, todos *repository.TodoRepository, userID, id int64) (*model.Todo, error) {
	todo, err := todos.GetByID(ctx, id)
	if err != nil {
		return nil, translateTodoError(err)
	}
	if err := RequireOwnership(userID, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) withTags(ctx context.Context, tags *repository.TagRepository, todo *model.Todo) (model.TodoResponse, error) {
	byTodo, err := tags.ListByTodoIDs(ctx, []int64{todo.ID})
	if err != nil {
		return model.TodoResponse{}, err
	}
	return todo.ToResponse(byTodo[todo.ID]), nil
}

// linkTags find-or-creates each named tag in the user's scope and links it.
func linkTags(ctx context.Context, todos *repository.TodoRepository, tags *repository.TagRepository, userID, todoID int64, names []string) error {
	for _, name := range normalizeTagNames(names) {
		tagID, err := tags.FindOrCreate(ctx, userID, name)
		if err != nil {
			return err
		}
		if err := todos.LinkTag(ctx, todoID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// normalizeTagNames trims names and drops empties and repeats, keeping order.
func normalizeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// parseDueDate accepts a calendar date or an RFC 3339 timestamp.
func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDueDate
}

func translateTodoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrTodoNotFound):
		return ErrTodoNotFound
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	}
	return err
}

// todosToResponse converts todos to responses, attaching their tags.
func todosToResponse(todos []model.Todo, tagsByTodo map[int64][]model.Tag) []model.TodoResponse {
	result := make([]model.TodoResponse, len(todos))
	for i := range todos {
		result[i] = todos[i].ToResponse(tagsByTodo[todos[i].ID])
	}
	return result
}
