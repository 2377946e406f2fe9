package errors

import (
	"errors"
	"fmt"
)

// ConnectionMessage is shown for every transport-level failure.
const ConnectionMessage = "unable to reach the server, check your connection"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	var fe *ForbiddenError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// UnauthorizedError means the session is gone. Whoever produces it has
// already cleared local credentials.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func IsUnauthorizedError(err error) (*UnauthorizedError, bool) {
	var ue *UnauthorizedError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// NetworkError hides the transport cause behind ConnectionMessage.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return ConnectionMessage
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

func NewNetworkError(cause error) *NetworkError {
	return &NetworkError{Cause: cause}
}

func IsNetworkError(err error) (*NetworkError, bool) {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

// APIError carries any other non-2xx answer with the server-provided message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

func IsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// UserMessage is the text a screen shows for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if _, ok := IsNetworkError(err); ok {
		return ConnectionMessage
	}
	if ae, ok := IsAPIError(err); ok {
		return ae.Message
	}
	if ve, ok := IsValidationError(err); ok {
		return ve.Message
	}
	if ce, ok := IsConflictError(err); ok {
		return ce.Message
	}
	if fe, ok := IsForbiddenError(err); ok {
		return fe.Message
	}
	if nf, ok := IsNotFoundError(err); ok {
		return nf.Message
	}
	if ue, ok := IsUnauthorizedError(err); ok {
		if ue.Message != "" {
			return ue.Message
		}
		return "your session has expired, please log in again"
	}
	return err.Error()
}
