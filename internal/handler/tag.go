package handler

import (
	"context"
	"net/http"

	"github.com/todoapp/todo-api/internal/model"
)

// TagService is the tag API the tag handler depends on.
type TagService interface {
	ListTags(ctx context.Context, userID int64) ([]model.TagResponse, error)
	GetTag(ctx context.Context, userID, id int64) (model.TagResponse, error)
	CreateTag(ctx context.Context, userID int64, req model.TagRequest) (model.TagResponse, error)
	UpdateTag(ctx context.Context, userID, id int64, req model.TagRequest) (model.TagResponse, error)
	DeleteTag(ctx context.Context, userID, id int64) error
}

// TagHandler handles HTTP requests for tag operations.
type TagHandler struct {
	service TagService
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(svc TagService) *TagHandler {
	return &TagHandler{service: svc}
}

// HandleListTags handles GET /tags requests.
func (h *TagHandler) HandleListTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ListTags(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "list tags")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleCreateTag handles POST /tags requests.
func (h *TagHandler) HandleCreateTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.CreateTag(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err, "create tag")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleGetTag handles GET /tags/{id} requests.
func (h *TagHandler) HandleGetTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "tag")
	if !ok {
		return
	}

	resp, err := h.service.GetTag(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err, "fetch tag")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateTag handles PUT /tags/{id} requests.
func (h *TagHandler) HandleUpdateTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "tag")
	if !ok {
		return
	}

	var req model.TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.UpdateTag(r.Context(), userID, id, req)
	if err != nil {
		writeError(w, r, err, "update tag")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDeleteTag handles DELETE /tags/{id} requests.
func (h *TagHandler) HandleDeleteTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "tag")
	if !ok {
		return
	}

	if err := h.service.DeleteTag(r.Context(), userID, id); err != nil {
		writeError(w, r, err, "delete tag")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
