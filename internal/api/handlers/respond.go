package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hugh/lawconnect/internal/api/dto"
	"github.com/hugh/lawconnect/internal/api/validation"
	"github.com/hugh/lawconnect/internal/auth"
	"github.com/hugh/lawconnect/internal/cases"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxBodyBytes = 1 << 20

// Responder writes envelopes and maps service errors onto HTTP statuses.
// With Debug set, unexpected errors carry their text in the body.
type Responder struct {
	logger    *slog.Logger
	validator *validation.Validator
	debug     bool
}

func NewResponder(logger *slog.Logger, debug bool) *Responder {
	return &Responder{
		logger:    logger,
		validator: validation.New(),
		debug:     debug,
	}
}

// knownErrors is checked in order; the first match wins.
var knownErrors = []struct {
	err     error
	status  int
	message string
}{
	{auth.ErrUserExists, http.StatusBadRequest, "Email already registered"},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{auth.ErrInactiveUser, http.StatusUnauthorized, "Account has been deactivated. Please contact support."},
	{auth.ErrIncorrectPassword, http.StatusUnauthorized, "Current password is incorrect"},
	{auth.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{auth.ErrResetTokenNotFound, http.StatusBadRequest, "Invalid reset token"},
	{auth.ErrResetTokenExpired, http.StatusBadRequest, "Reset token has expired or already been used"},
	{auth.ErrResetTokenUsed, http.StatusBadRequest, "Reset token has expired or already been used"},
	{bcrypt.ErrPasswordTooLong, http.StatusBadRequest, "Password must be at most 72 bytes"},
	{cases.ErrCaseNotFound, http.StatusNotFound, "Case not found"},
	{cases.ErrForbidden, http.StatusForbidden, "Not authorized"},
	{cases.ErrInvalidScore, http.StatusBadRequest, "Probability must be between 0 and 100"},
	{gorm.ErrDuplicatedKey, http.StatusBadRequest, "Record already exists"},
	{gorm.ErrForeignKeyViolated, http.StatusBadRequest, "Invalid reference to related record"},
	{gorm.ErrRecordNotFound, http.StatusNotFound, "Resource not found"},
}

func (rs *Responder) JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (rs *Responder) OK(w http.ResponseWriter, message string, data interface{}) {
	rs.JSON(w, http.StatusOK, dto.OKMessage(message, data))
}

func (rs *Responder) Fail(w http.ResponseWriter, status int, message string) {
	rs.JSON(w, status, dto.Fail(message))
}

// Error maps err onto the envelope. Unknown errors are logged and hidden
// behind a generic 500.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		rs.JSON(w, http.StatusBadRequest, dto.Response{
			Message: "Validation failed",
			Errors:  verr.Errors,
		})
		return
	}

	for _, known := range knownErrors {
		if errors.Is(err, known.err) {
			rs.Fail(w, known.status, known.message)
			return
		}
	}

	rs.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)

	resp := dto.Fail("Internal server error")
	if rs.debug {
		resp.Error = err.Error()
	}
	rs.JSON(w, http.StatusInternalServerError, resp)
}

// Decode reads a JSON body into v and runs its validation tags.
func (rs *Responder) Decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		rs.Fail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := rs.validator.Validate(v); err != nil {
		rs.Error(w, r, err)
		return false
	}
	return true
}
