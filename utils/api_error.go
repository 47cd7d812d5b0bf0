package utils

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	ErrUnauthenticated ErrorKind = "unauthenticated"
	ErrForbidden       ErrorKind = "forbidden"
	ErrNotFound        ErrorKind = "not_found"
	ErrInvalidState    ErrorKind = "invalid_state"
	ErrConflict        ErrorKind = "conflict"
	ErrValidation      ErrorKind = "validation"
)

// ApiError je greška koja se prevodi u stabilan HTTP status i JSON telo
type ApiError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Errors     []string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewUnauthenticated(message string) *ApiError {
	return &ApiError{Kind: ErrUnauthenticated, StatusCode: http.StatusUnauthorized, Message: message}
}

func NewForbidden(message string) *ApiError {
	return &ApiError{Kind: ErrForbidden, StatusCode: http.StatusForbidden, Message: message}
}

func NewNotFound(message string) *ApiError {
	return &ApiError{Kind: ErrNotFound, StatusCode: http.StatusNotFound, Message: message}
}

func NewInvalidState(message string) *ApiError {
	return &ApiError{Kind: ErrInvalidState, StatusCode: http.StatusBadRequest, Message: message}
}

func NewConflict(message string) *ApiError {
	return &ApiError{Kind: ErrConflict, StatusCode: http.StatusConflict, Message: message}
}

func NewValidation(message string, fieldErrors ...string) *ApiError {
	return &ApiError{Kind: ErrValidation, StatusCode: http.StatusBadRequest, Message: message, Errors: fieldErrors}
}

// IsKind proverava da li je greška ApiError zadate vrste
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
