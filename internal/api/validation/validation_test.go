package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,hasdigit,hasletter"`
	Role     string `json:"role" validate:"omitempty,oneof=client lawyer"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
}

type passwordPair struct {
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()
	err := v.Validate(signup{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret1",
		Role:     "lawyer",
		Phone:    "+1 (555) 010-2000",
	})
	assert.NoError(t, err)
}

func TestValidate_Messages(t *testing.T) {
	tests := []struct {
		name    string
		input   signup
		field   string
		message string
	}{
		{"missing_name", signup{Email: "a@b.co", Password: "abc123"}, "name", "Name is required"},
		{"short_name", signup{Name: "A", Email: "a@b.co", Password: "abc123"}, "name", "Name must be between 2 and 100 characters"},
		{"bad_email", signup{Name: "Al", Email: "nope", Password: "abc123"}, "email", "Invalid email address"},
		{"short_password", signup{Name: "Al", Email: "a@b.co", Password: "a1"}, "password", "Password must be at least 6 characters"},
		{"no_digit", signup{Name: "Al", Email: "a@b.co", Password: "abcdefg"}, "password", "Password must contain at least one number"},
		{"no_letter", signup{Name: "Al", Email: "a@b.co", Password: "1234567"}, "password", "Password must contain at least one letter"},
		{"admin_role", signup{Name: "Al", Email: "a@b.co", Password: "abc123", Role: "admin"}, "role", "Role must be either client or lawyer"},
		{"bad_phone", signup{Name: "Al", Email: "a@b.co", Password: "abc123", Phone: "call me"}, "phone", "Invalid phone number format"},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Map()[tt.field])
		})
	}
}

func TestValidate_ReportsFieldsInOrder(t *testing.T) {
	err := New().Validate(signup{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 3)
	assert.Equal(t, "name", verr.Errors[0].Field)
	assert.Equal(t, "email", verr.Errors[1].Field)
	assert.Equal(t, "password", verr.Errors[2].Field)
}

func TestValidate_PasswordsMustMatch(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(passwordPair{Password: "abc123", ConfirmPassword: "abc123"}))

	err := v.Validate(passwordPair{Password: "abc123", ConfirmPassword: "abc124"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Passwords do not match", verr.Map()["confirmPassword"])
}

func TestValidate_NotBlank(t *testing.T) {
	type chat struct {
		Message string `json:"message" validate:"notblank"`
	}

	for _, msg := range []string{"   \n", "\x01\x02", "\x00 \x07"} {
		err := New().Validate(chat{Message: msg})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "%q", msg)
		assert.Equal(t, "Message is required", verr.Map()["message"])
	}
}

func TestValidate_PasswordByteLimit(t *testing.T) {
	type reset struct {
		Password string `json:"password" validate:"required,min=6,maxbytes=72,hasdigit,hasletter"`
	}

	v := New()
	assert.NoError(t, v.Validate(reset{Password: strings.Repeat("a", 71) + "1"}))

	err := v.Validate(reset{Password: strings.Repeat("a", 72) + "1"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password must be at most 72 bytes", verr.Map()["password"])

	// 37 characters but 73 bytes.
	err = v.Validate(reset{Password: strings.Repeat("é", 36) + "1"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password must be at most 72 bytes", verr.Map()["password"])
}

func TestValidate_CaseType(t *testing.T) {
	type prediction struct {
		CaseType string `json:"caseType" validate:"omitempty,casetype"`
	}

	v := New()
	assert.NoError(t, v.Validate(prediction{CaseType: "family"}))
	assert.NoError(t, v.Validate(prediction{}))
	assert.Error(t, v.Validate(prediction{CaseType: "maritime"}))
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"normal", "Hello World", "Hello World"},
		{"null_bytes", "Hello\x00World", "HelloWorld"},
		{"keeps_newlines", "Line1\nLine2", "Line1\nLine2"},
		{"keeps_tabs", "Col1\tCol2", "Col1\tCol2"},
		{"removes_control", "Hello\x07World", "HelloWorld"},
		{"unicode", "Héllo Wörld", "Héllo Wörld"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeString(tt.input))
		})
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
	assert.Equal(t, "ab", TruncateString("ab", 3))
	assert.Equal(t, "", TruncateString("abc", 0))
	assert.Equal(t, "hé", TruncateString("héllo", 2))
	assert.Equal(t, "€€", TruncateString("€€€", 2))
}
