package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/todoapp/todo-api/internal/crypto"
	"github.com/todoapp/todo-api/internal/middleware"
	"github.com/todoapp/todo-api/internal/model"
	"github.com/todoapp/todo-api/internal/service"
)

const (
	testSecret = "test-secret"
	testCookie = "todo_session"
)

type fakeUser struct {
	id       int64
	password string
}

type fakeAuthService struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]fakeUser
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{users: make(map[string]fakeUser)}
}

func (f *fakeAuthService) Register(_ context.Context, req model.SignupRequest) (model.UserResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(req.Password) < service.MinPasswordLength {
		return model.UserResponse{}, service.ErrWeakPassword
	}
	if _, ok := f.users[req.Email]; ok {
		return model.UserResponse{}, service.ErrEmailTaken
	}
	f.nextID++
	f.users[req.Email] = fakeUser{id: f.nextID, password: req.Password}
	return model.UserResponse{ID: f.nextID, Email: req.Email}, nil
}

func (f *fakeAuthService) Login(_ context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	f.mu.Lock()
	u, ok := f.users[req.Email]
	f.mu.Unlock()

	if !ok || u.password != req.Password {
		return model.AuthResponse{}, service.ErrInvalidCredentials
	}
	token, exp, err := crypto.GenerateToken(u.id, req.Email, testSecret, time.Hour)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{Token: token, ExpiresAt: exp, User: model.UserResponse{ID: u.id, Email: req.Email}}, nil
}

func (f *fakeAuthService) GetUser(_ context.Context, userID int64) (model.UserResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for email, u := range f.users {
		if u.id == userID {
			return model.UserResponse{ID: u.id, Email: email}, nil
		}
	}
	return model.UserResponse{}, service.ErrUserNotFound
}

type fakeTodoService struct {
	mu     sync.Mutex
	nextID int64
	todos  map[int64]model.TodoResponse
}

func newFakeTodoService() *fakeTodoService {
	return &fakeTodoService{todos: make(map[int64]model.TodoResponse)}
}

func (f *fakeTodoService) owned(userID, id int64) (model.TodoResponse, error) {
	todo, ok := f.todos[id]
	if !ok {
		return model.TodoResponse{}, service.ErrTodoNotFound
	}
	if todo.UserID != userID {
		return model.TodoResponse{}, service.ErrForbidden
	}
	return todo, nil
}

func (f *fakeTodoService) ListTodos(_ context.Context, userID int64) ([]model.TodoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []model.TodoResponse{}
	for _, todo := range f.todos {
		if todo.UserID == userID {
			out = append(out, todo)
		}
	}
	return out, nil
}

func (f *fakeTodoService) GetTodo(_ context.Context, userID, id int64) (model.TodoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owned(userID, id)
}

func (f *fakeTodoService) CreateTodo(_ context.Context, userID int64, req model.CreateTodoRequest) (model.TodoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if req.Title == "" {
		return model.TodoResponse{}, service.ErrTitleRequired
	}
	f.nextID++
	todo := model.TodoResponse{
		ID:       f.nextID,
		UserID:   userID,
		Title:    req.Title,
		Status:   model.StatusPending,
		Priority: model.PriorityLow,
		Tags:     []model.TagResponse{},
	}
	f.todos[todo.ID] = todo
	return todo, nil
}

func (f *fakeTodoService) UpdateTodo(_ context.Context, userID, id int64, req model.UpdateTodoRequest) (model.TodoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	todo, err := f.owned(userID, id)
	if err != nil {
		return model.TodoResponse{}, err
	}
	if req.Title != nil {
		todo.Title = *req.Title
	}
	f.todos[id] = todo
	return todo, nil
}

func (f *fakeTodoService) DeleteTodo(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.owned(userID, id); err != nil {
		return err
	}
	delete(f.todos, id)
	return nil
}

// stubTagService answers every call with the same tag and error.
type stubTagService struct {
	tag model.TagResponse
	err error
}

func (s stubTagService) ListTags(context.Context, int64) ([]model.TagResponse, error) {
	return []model.TagResponse{s.tag}, s.err
}

func (s stubTagService) GetTag(context.Context, int64, int64) (model.TagResponse, error) {
	return s.tag, s.err
}

func (s stubTagService) CreateTag(context.Context, int64, model.TagRequest) (model.TagResponse, error) {
	return s.tag, s.err
}

func (s stubTagService) UpdateTag(context.Context, int64, int64, model.TagRequest) (model.TagResponse, error) {
	return s.tag, s.err
}

func (s stubTagService) DeleteTag(context.Context, int64, int64) error {
	return s.err
}

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(context.Context) error { return p.err }

func newTestRouter(auth AuthService, todos TodoService, tags TagService, db Pinger) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, Handlers{
		Auth:   NewAuthHandler(auth, SessionCookie{Name: testCookie}),
		Todos:  NewTodoHandler(todos),
		Tags:   NewTagHandler(tags),
		Health: NewHealthHandler(db),
	}, middleware.Session(testSecret, testCookie))
	return r
}

func sessionToken(t *testing.T, userID int64) string {
	t.Helper()

	token, _, err := crypto.GenerateToken(userID, "user@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}
