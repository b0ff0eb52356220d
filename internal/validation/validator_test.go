package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email    string   `json:"email" validate:"required,basic_email"`
	Password string   `json:"password" validate:"required,min=8"`
	Tags     []string `json:"tags" validate:"omitempty,dive,max=3"`
}

func TestValidate(t *testing.T) {
	v := New()

	tests := []struct {
		name       string
		form       signupForm
		wantFields map[string]string
	}{
		{
			name: "valid",
			form: signupForm{Email: "a@x.com", Password: "password1"},
		},
		{
			name:       "missing email",
			form:       signupForm{Password: "password1"},
			wantFields: map[string]string{"email": "is required"},
		},
		{
			name:       "malformed email",
			form:       signupForm{Email: "a@x", Password: "password1"},
			wantFields: map[string]string{"email": "must be a valid email address"},
		},
		{
			name:       "short password",
			form:       signupForm{Email: "a@x.com", Password: "short"},
			wantFields: map[string]string{"password": "must be at least 8 characters"},
		},
		{
			name:       "long tag",
			form:       signupForm{Email: "a@x.com", Password: "password1", Tags: []string{"ok", "toolong"}},
			wantFields: map[string]string{"tags[1]": "must not exceed 3 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.form)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))

			var verr *Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantFields, verr.Fields)
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@x.com", true},
		{"first.last@sub.example.org", true},
		{"a@x", false},
		{"ax.com", false},
		{"a b@x.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidEmail(tt.in), tt.in)
	}
}

func TestErrorMessageIsStable(t *testing.T) {
	err := &Error{Fields: map[string]string{"title": "is required", "priority": "is invalid"}}
	assert.Equal(t, "validation failed: priority is invalid, title is required", err.Error())
}
