package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-optimizer/internal/captcha"
	"github.com/jonathan/cv-optimizer/internal/pipeline"
)

// ErrInvalidCredentials indicates a failed login attempt.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// ErrValidation indicates a malformed or incomplete request body.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a referenced resource does not exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrStorageUnavailable indicates the endpoint needs a database that
// the server was started without.
type ErrStorageUnavailable struct{}

func (e *ErrStorageUnavailable) Error() string {
	return "persistence is not configured"
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	var (
		validationErr     *ErrValidation
		pipelineErr       *pipeline.ValidationError
		captchaErr        *captcha.Error
		notFoundErr       *ErrNotFound
		credentialsErr    *ErrInvalidCredentials
		storageMissingErr *ErrStorageUnavailable
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &pipelineErr):
		return http.StatusBadRequest
	case errors.As(err, &credentialsErr):
		return http.StatusUnauthorized
	case errors.As(err, &captchaErr):
		return http.StatusForbidden
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &storageMissingErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
