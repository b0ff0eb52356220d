package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/todoapp/todo-api/internal/crypto"
	"github.com/todoapp/todo-api/internal/model"
	"github.com/todoapp/todo-api/internal/repository"
	"github.com/todoapp/todo-api/internal/validation"
)

func newTestAuthService() *AuthService {
	return NewAuthService(
		repository.NewUserRepository(nil),
		validation.New(),
		"test-secret",
		time.Hour,
	)
}

func newMockAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	return NewAuthService(repository.NewUserRepository(db), validation.New(), "test-secret", time.Hour), mock
}

// captureArg matches any string argument and remembers it.
type captureArg struct {
	value string
}

func (a *captureArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	a.value = s
	return ok
}

func TestRegister_InvalidInput(t *testing.T) {
	svc := newTestAuthService()

	tests := []struct {
		name    string
		req     model.SignupRequest
		wantErr error
	}{
		{"empty email", model.SignupRequest{Email: "", Password: "password123"}, ErrInvalidEmail},
		{"no domain", model.SignupRequest{Email: "alice", Password: "password123"}, ErrInvalidEmail},
		{"no tld", model.SignupRequest{Email: "alice@example", Password: "password123"}, ErrInvalidEmail},
		{"space in email", model.SignupRequest{Email: "al ice@example.com", Password: "password123"}, ErrInvalidEmail},
		{"email too long", model.SignupRequest{Email: strings.Repeat("a", 250) + "@example.com", Password: "password123"}, ErrInvalidEmail},
		{"bad email and password", model.SignupRequest{Email: "alice", Password: "short"}, ErrInvalidEmail},
		{"empty password", model.SignupRequest{Email: "alice@example.com", Password: ""}, ErrWeakPassword},
		{"short password", model.SignupRequest{Email: "alice@example.com", Password: "1234567"}, ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegister_StoresHashedPassword(t *testing.T) {
	svc, mock := newMockAuthService(t)

	stored := &captureArg{}
	mock.ExpectExec(`INSERT INTO users \(email, password_hash\) VALUES \(\?, \?\)`).
		WithArgs("Alice@Example.com", stored).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \?`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(7, "Alice@Example.com", "$argon2id$stored", testNow, testNow))

	user, err := svc.Register(context.Background(), model.SignupRequest{
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "Alice@Example.com", user.Email)
	assert.NotContains(t, stored.value, "password123")

	match, err := crypto.VerifyPassword("password123", stored.value)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = crypto.VerifyPassword("password12", stored.value)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, mock := newMockAuthService(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("alice@example.com", sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := svc.Register(context.Background(), model.SignupRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_EmptyCredentials(t *testing.T) {
	svc := newTestAuthService()

	tests := []struct {
		name string
		req  model.LoginRequest
	}{
		{"empty email", model.LoginRequest{Email: "", Password: "password123"}},
		{"empty password", model.LoginRequest{Email: "alice@example.com", Password: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.req)
			if err != ErrInvalidCredentials {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := crypto.HashPassword("password123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"correct password", "password123", nil},
		{"wrong password", "password124", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newMockAuthService(t)
			mock.ExpectQuery(`SELECT .* FROM users WHERE email = \?`).
				WithArgs("alice@example.com").
				WillReturnRows(sqlmock.NewRows(userCols).
					AddRow(7, "alice@example.com", hash, testNow, testNow))

			resp, err := svc.Login(context.Background(), model.LoginRequest{
				Email:    "alice@example.com",
				Password: tt.password,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, resp.Token)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(7), resp.User.ID)
			assert.True(t, resp.ExpiresAt.After(time.Now()))

			claims, err := crypto.ValidateToken(resp.Token, "test-secret")
			require.NoError(t, err)
			assert.Equal(t, int64(7), claims.UserID)
		})
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, mock := newMockAuthService(t)

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \?`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailStillVerifies(t *testing.T) {
	svc, mock := newMockAuthService(t)

	var verifiedAgainst []string
	svc.verify = func(password, encodedHash string) (bool, error) {
		verifiedAgainst = append(verifiedAgainst, encodedHash)
		return crypto.VerifyPassword(password, encodedHash)
	}

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \?`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.Len(t, verifiedAgainst, 1)
	assert.Equal(t, dummyHash(), verifiedAgainst[0])
	assert.False(t, crypto.NeedsRehash(verifiedAgainst[0]))
}

func TestLogin_EmailIsCaseSensitive(t *testing.T) {
	svc, mock := newMockAuthService(t)

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \?`).
		WithArgs("ALICE@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "ALICE@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UpgradesLegacyHash(t *testing.T) {
	svc, mock := newMockAuthService(t)

	legacy, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \?`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(7, "alice@example.com", string(legacy), testNow, testNow))
	mock.ExpectExec(`UPDATE users SET password_hash = \? WHERE id = \?`).
		WithArgs(sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_RepositoryFailure(t *testing.T) {
	svc, mock := newMockAuthService(t)
	boom := errors.New("connection refused")

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \?`).
		WillReturnError(boom)

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUser_NotFound(t *testing.T) {
	svc, mock := newMockAuthService(t)

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \?`).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.GetUser(context.Background(), 3)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
