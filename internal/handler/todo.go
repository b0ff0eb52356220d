package handler

import (
	"context"
	"net/http"

	"github.com/todoapp/todo-api/internal/model"
)

// TodoService is the todo API the todo handler depends on.
type TodoService interface {
	ListTodos(ctx context.Context, userID int64) ([]model.TodoResponse, error)
	GetTodo(ctx context.Context, userID, id int64) (model.TodoResponse, error)
	CreateTodo(ctx context.Context, userID int64, req model.CreateTodoRequest) (model.TodoResponse, error)
	UpdateTodo(ctx context.Context, userID, id int64, req model.UpdateTodoRequest) (model.TodoResponse, error)
	DeleteTodo(ctx context.Context, userID, id int64) error
}

// TodoHandler handles HTTP requests for todo operations.
type TodoHandler struct {
	service TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc TodoService) *TodoHandler {
	return &TodoHandler{service: svc}
}

// HandleListTodos handles GET /todos requests.
func (h *TodoHandler) HandleListTodos(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ListTodos(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "list todos")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleCreateTodo handles POST /todos requests.
func (h *TodoHandler) HandleCreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.CreateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.CreateTodo(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err, "create todo")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleGetTodo handles GET /todos/{id} requests.
func (h *TodoHandler) HandleGetTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "todo")
	if !ok {
		return
	}

	resp, err := h.service.GetTodo(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err, "fetch todo")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateTodo handles PUT /todos/{id} requests.
func (h *TodoHandler) HandleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "todo")
	if !ok {
		return
	}

	var req model.UpdateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.UpdateTodo(r.Context(), userID, id, req)
	if err != nil {
		writeError(w, r, err, "update todo")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDeleteTodo handles DELETE /todos/{id} requests.
func (h *TodoHandler) HandleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "todo")
	if !ok {
		return
	}

	if err := h.service.DeleteTodo(r.Context(), userID, id); err != nil {
		writeError(w, r, err, "delete todo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
