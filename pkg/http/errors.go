package http

import "net/http"

// AppError represents an application-level error with HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NotFoundError creates a 404 error.
func NotFoundError(message string) *AppError {
	return &AppError{
		Code:    "ERR_NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
	}
}
