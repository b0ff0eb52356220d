package model

import "time"

// Tag represents a per-user label stored in the tags table.
// Names are unique per user.
type Tag struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// OwnerID returns the id of the user owning the tag.
func (t *Tag) OwnerID() int64 { return t.UserID }

// TagRequest is the body of POST /tags and PUT /tags/{id}.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToResponse converts the tag to its API representation.
func (t *Tag) ToResponse() TagResponse {
	return TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
	}
}
