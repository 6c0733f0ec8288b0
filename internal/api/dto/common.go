package dto

import "github.com/hugh/lawconnect/internal/api/validation"

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Data    interface{}             `json:"data,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`

	// Only populated outside production.
	Error string `json:"error,omitempty"`
	Stack string `json:"stack,omitempty"`
}

func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func OKMessage(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

func Fail(message string) Response {
	return Response{Success: false, Message: message}
}
