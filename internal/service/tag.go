package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/todoapp/todo-api/internal/model"
	"github.com/todoapp/todo-api/internal/repository"
	"github.com/todoapp/todo-api/internal/validation"
)

// TagService handles tag business logic. Tags are scoped per user.
type TagService struct {
	tags     *repository.TagRepository
	tx       *repository.TxManager
	validate *validation.Validator
}

// NewTagService creates a new TagService.
func NewTagService(tags *repository.TagRepository, tx *repository.TxManager, validate *validation.Validator) *TagService {
	return &TagService{tags: tags, tx: tx, validate: validate}
}

// ListTags returns the user's tags ordered by name.
func (s *TagService) ListTags(ctx context.Context, userID int64) ([]model.TagResponse, error) {
	tags, err := s.tags.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tagsToResponse(tags), nil
}

// GetTag returns one of the user's tags.
func (s *TagService) GetTag(ctx context.Context, userID, id int64) (model.TagResponse, error) {
	tag, err := s.loadOwned(ctx, s.tags, userID, id)
	if err != nil {
		return model.TagResponse{}, err
	}
	return tag.ToResponse(), nil
}

// CreateTag creates a tag. Names are unique per user.
func (s *TagService) CreateTag(ctx context.Context, userID int64, req model.TagRequest) (model.TagResponse, error) {
	name, err := s.tagName(req)
	if err != nil {
		return model.TagResponse{}, err
	}

	tag := &model.Tag{Name: name, UserID: userID}
	if err := s.tags.Create(ctx, tag); err != nil {
		return model.TagResponse{}, translateTagError(err)
	}
	return tag.ToResponse(), nil
}

// UpdateTag renames one of the user's tags.
func (s *TagService) UpdateTag(ctx context.Context, userID, id int64, req model.TagRequest) (model.TagResponse, error) {
	name, err := s.tagName(req)
	if err != nil {
		return model.TagResponse{}, err
	}

	tag, err := s.loadOwned(ctx, s.tags, userID, id)
	if err != nil {
		return model.TagResponse{}, err
	}
	if tag.Name == name {
		return tag.ToResponse(), nil
	}

	if err := s.tags.Rename(ctx, id, name); err != nil {
		return model.TagResponse{}, translateTagError(err)
	}
	tag.Name = name
	return tag.ToResponse(), nil
}

// DeleteTag deletes one of the user's tags. A tag still linked to any todo
// cannot be deleted.
func (s *TagService) DeleteTag(ctx context.Context, userID, id int64) error {
	err := s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		tags := s.tags.WithTx(tx)

		if _, err := s.loadOwned(ctx, tags, userID, id); err != nil {
			return err
		}

		count, err := tags.CountLinks(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return &TagInUseError{Count: count}
		}

		err = tags.Delete(ctx, id)
		if errors.Is(err, repository.ErrTagReferenced) {
			// linked after the count; the failed statement leaves the tx usable
			if count, cErr := tags.CountLinks(ctx, id); cErr == nil {
				return &TagInUseError{Count: count}
			}
		}
		return err
	})
	return translateTagError(err)
}

func (s *TagService) tagName(req model.TagRequest) (string, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "", ErrTagNameRequired
	}
	if err := s.validate.Validate(req); err != nil {
		return "", err
	}
	return req.Name, nil
}

func (s *TagService) loadOwned(ctx context.Context, tags *repository.TagRepository, userID, id int64) (*model.Tag, error) {
	tag, err := tags.GetByID(ctx, id)
	if err != nil {
		return nil, translateTagError(err)
	}
	if err := RequireOwnership(userID, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func translateTagError(err error) error {
	switch {
	case errors.Is(err, repository.ErrTagNotFound):
		return ErrTagNotFound
	case errors.Is(err, repository.ErrDuplicateTag):
		return ErrTagExists
	case errors.Is(err, repository.ErrTagReferenced):
		return &TagInUseError{}
	}
	return err
}

// tagsToResponse converts a slice of Tag to a slice of TagResponse.
func tagsToResponse(tags []model.Tag) []model.TagResponse {
	result := make([]model.TagResponse, len(tags))
	for i := range tags {
		result[i] = tags[i].ToResponse()
	}
	return result
}
