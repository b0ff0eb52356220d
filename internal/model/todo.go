package model

import "time"

// Status is the lifecycle state of a todo.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

// ValidPriority reports whether p is within 1..3.
func ValidPriority(p int) bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// Todo represents a todo row in the database.
type Todo struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	Status      Status     `db:"status"`
	Priority    int        `db:"priority"`
	DueDate     *time.Time `db:"due_date"`
	PhotoURL    *string    `db:"photo_url"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// OwnerID returns the id of the user owning the todo.
func (t *Todo) OwnerID() int64 { return t.UserID }

// TodoChanges holds the columns of a partial todo update. Nil pointers and
// unset optionals leave the column untouched.
type TodoChanges struct {
	Title       *string
	Status      *Status
	Priority    *int
	Description Optional[string]
	DueDate     Optional[time.Time]
	PhotoURL    Optional[string]
}

// CreateTodoRequest is the body of POST /todos.
type CreateTodoRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=10000"`
	Status      Status   `json:"status"`
	Priority    int      `json:"priority"`
	DueDate     *string  `json:"dueDate"`
	PhotoURL    *string  `json:"photoUrl" validate:"omitempty,max=2048"`
	Tags        []string `json:"tags" validate:"omitempty,max=50,dive,max=100"`
}

// UpdateTodoRequest is the body of PUT /todos/{id}. Only supplied fields change;
// description, dueDate and photoUrl may be cleared with an explicit null.
type UpdateTodoRequest struct {
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	Description Optional[string] `json:"description"`
	Status      *Status          `json:"status"`
	Priority    *int             `json:"priority"`
	DueDate     Optional[string] `json:"dueDate"`
	PhotoURL    Optional[string] `json:"photoUrl"`
	Tags        *[]string        `json:"tags" validate:"omitempty,max=50,dive,max=100"`
}

// TodoResponse represents a todo with its tags in API responses.
type TodoResponse struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"userId"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      Status        `json:"status"`
	Priority    int           `json:"priority"`
	DueDate     *time.Time    `json:"dueDate"`
	PhotoURL    *string       `json:"photoUrl"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Tags        []TagResponse `json:"tags"`
}

// ToResponse converts the todo and its tags to the API representation.
func (t *Todo) ToResponse(tags []Tag) TodoResponse {
	resp := TodoResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		PhotoURL:    t.PhotoURL,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Tags:        make([]TagResponse, len(tags)),
	}
	for i := range tags {
		resp.Tags[i] = tags[i].ToResponse()
	}
	return resp
}
