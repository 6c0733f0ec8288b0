package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugh/lawconnect/internal/api/handlers"
	"github.com/hugh/lawconnect/internal/auth"
	"github.com/hugh/lawconnect/internal/cases"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestResponder_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"user exists", auth.ErrUserExists, http.StatusBadRequest, "Email already registered"},
		{"wrapped credentials", fmt.Errorf("login: %w", auth.ErrInvalidCredentials), http.StatusUnauthorized, "Invalid email or password"},
		{"expired reset", auth.ErrResetTokenExpired, http.StatusBadRequest, "Reset token has expired or already been used"},
		{"password too long", fmt.Errorf("hashing password: %w", bcrypt.ErrPasswordTooLong), http.StatusBadRequest, "Password must be at most 72 bytes"},
		{"forbidden case", cases.ErrForbidden, http.StatusForbidden, "Not authorized"},
		{"missing case", cases.ErrCaseNotFound, http.StatusNotFound, "Case not found"},
		{"duplicate key", gorm.ErrDuplicatedKey, http.StatusBadRequest, "Record already exists"},
		{"foreign key", gorm.ErrForeignKeyViolated, http.StatusBadRequest, "Invalid reference to related record"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}

	rs := newResponder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			rs.Error(rr, httptest.NewRequest("GET", "/", nil), tt.err)

			assert.Equal(t, tt.status, rr.Code)
			env := decode[any](t, rr)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
			assert.Empty(t, env.Error)
		})
	}
}

func TestResponder_Error_DebugExposesDetail(t *testing.T) {
	rs := handlers.NewResponder(discardLogger(), true)

	rr := httptest.NewRecorder()
	rs.Error(rr, httptest.NewRequest("GET", "/", nil), errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "disk on fire", decode[any](t, rr).Error)
}
