package service

// Owned is implemented by resources that belong to a single user.
type Owned interface {
	OwnerID() int64
}

// RequireOwnership returns ErrForbidden unless userID owns the resource.
// Callers load the resource first and report a missing one as not found, so
// a foreign resource answers 403 and an absent one 404.
func RequireOwnership(userID int64, resource Owned) error {
	if resource.OwnerID() != userID {
		return ErrForbidden
	}
	return nil
}
