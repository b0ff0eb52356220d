package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 8 characters long")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")

	ErrForbidden = errors.New("forbidden")

	ErrTodoNotFound     = errors.New("todo not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidStatus    = errors.New("status must be one of PENDING, IN_PROGRESS, DONE")
	ErrInvalidPriority  = errors.New("priority must be 1, 2 or 3")
	ErrInvalidDueDate   = errors.New("dueDate must be YYYY-MM-DD or RFC 3339")
	ErrTodoLimitReached = fmt.Errorf("you can have a maximum of %d todos", MaxTodosPerUser)

	ErrTagNotFound     = errors.New("tag not found")
	ErrTagNameRequired = errors.New("tag name is required")
	ErrTagExists       = errors.New("tag already exists")
	ErrTagInUse        = errors.New("cannot delete tag that is in use")
)

// TagInUseError is returned when deleting a tag that todos still reference.
// It matches ErrTagInUse with errors.Is.
type TagInUseError struct {
	Count int
}

func (e *TagInUseError) Error() string {
	return fmt.Sprintf("%s (%d todos)", ErrTagInUse, e.Count)
}

func (e *TagInUseError) Is(target error) bool {
	return target == ErrTagInUse
}
