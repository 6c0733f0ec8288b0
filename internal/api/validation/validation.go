package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/hugh/lawconnect/internal/database/models"
)

var phoneRegex = regexp.MustCompile(`^[0-9+\-\s()]*$`)

// FieldError is one failed rule, reported under the request's JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failed field in struct order.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Map returns the errors keyed by field.
func (e *ValidationError) Map() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Field] = fe.Message
	}
	return out
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("notblank", isNotBlank)
	_ = v.RegisterValidation("hasdigit", hasDigit)
	_ = v.RegisterValidation("hasletter", hasLetter)
	_ = v.RegisterValidation("phone", isPhone)
	_ = v.RegisterValidation("casetype", isCaseType)
	_ = v.RegisterValidation("maxbytes", maxBytes)

	return &Validator{validate: v}
}

// Validate checks i against its struct tags. Rule failures come back as
// *ValidationError; anything else is a programming error.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := &ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

// messages holds the user-facing text per field and rule.
var messages = map[string]string{
	"name.required":            "Name is required",
	"name.notblank":            "Name is required",
	"name.min":                 "Name must be between 2 and 100 characters",
	"name.max":                 "Name must be between 2 and 100 characters",
	"email.required":           "Email is required",
	"email.email":              "Invalid email address",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 6 characters",
	"password.hasdigit":        "Password must contain at least one number",
	"password.hasletter":       "Password must contain at least one letter",
	"password.maxbytes":        "Password must be at most 72 bytes",
	"role.oneof":               "Role must be either client or lawyer",
	"phone.phone":              "Invalid phone number format",
	"address.max":              "Address must be less than 500 characters",
	"specialization.max":       "Specialization must be less than 255 characters",
	"yearsOfExperience.min":    "Years of experience cannot be negative",
	"token.required":           "Reset token is required",
	"confirmPassword.required": "Confirm password is required",
	"confirmPassword.eqfield":  "Passwords do not match",
	"currentPassword.required": "Current password is required",
	"newPassword.required":     "New password is required",
	"newPassword.min":          "Password must be at least 6 characters",
	"newPassword.hasdigit":     "Password must contain at least one number",
	"newPassword.hasletter":    "Password must contain at least one letter",
	"newPassword.maxbytes":     "Password must be at most 72 bytes",
	"message.required":         "Message is required",
	"message.notblank":         "Message is required",
	"query.required":           "Legal query is required",
	"query.notblank":           "Legal query is required",
	"documentSummary.required": "Document summary required",
	"documentSummary.notblank": "Document summary required",
	"caseId.uuid":              "Invalid case id",
	"caseType.casetype":        "Invalid case type",
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func isNotBlank(fl validator.FieldLevel) bool {
	return !IsBlank(fl.Field().String())
}

// IsBlank reports whether nothing but whitespace survives SanitizeString.
func IsBlank(s string) bool {
	return strings.TrimSpace(SanitizeString(s)) == ""
}

func hasDigit(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsDigit) >= 0
}

func hasLetter(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsLetter) >= 0
}

func isPhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// maxBytes bounds the encoded length, which is what bcrypt limits.
func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

func isCaseType(fl validator.FieldLevel) bool {
	return models.IsValidCaseType(fl.Field().String())
}

// SanitizeString removes null bytes and control characters other than
// newlines and tabs.
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	var result strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// TruncateString cuts s to at most maxLen runes.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	for i := range s {
		if maxLen == 0 {
			return s[:i]
		}
		maxLen--
	}
	return s
}
