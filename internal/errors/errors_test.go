package errors

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestIsHelpers_SeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("updating order status: %w", NewConflictError("status changed"))

	ce, ok := IsConflictError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "status changed", ce.Message)

	_, ok = IsForbiddenError(fmt.Errorf("listing users: %w", NewForbiddenError("admins only")))
	assert.True(t, ok)

	_, ok = IsUnauthorizedError(fmt.Errorf("fetching me: %w", NewUnauthorizedError("expired")))
	assert.True(t, ok)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "name", Message: "is required"},
		{Field: "price", Message: "must be greater than or equal to 0"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestNetworkError_HidesCause(t *testing.T) {
	cause := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	err := NewNetworkError(cause)

	assert.Equal(t, ConnectionMessage, err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, ConnectionMessage, UserMessage(fmt.Errorf("listing orders: %w", err)))
}

func TestAPIError_UserMessageIsServerMessage(t *testing.T) {
	err := fmt.Errorf("creating order: %w", NewAPIError(422, "menu item 7 is not available"))

	ae, ok := IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, 422, ae.Status)
	assert.Equal(t, "menu item 7 is not available", UserMessage(err))
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "wrapper")
	assert.Contains(t, err.Error(), "underlying error")
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestUserMessage_StripsWrapping(t *testing.T) {
	assert.Equal(t, "cart is empty", UserMessage(fmt.Errorf("checkout: %w", NewValidationError("cart is empty"))))
	assert.Equal(t, "cannot move from ready to pending", UserMessage(fmt.Errorf("order 3: %w", NewConflictError("cannot move from ready to pending"))))
	assert.Equal(t, "admins only", UserMessage(fmt.Errorf("listing users: %w", NewForbiddenError("admins only"))))
	assert.Equal(t, "", UserMessage(nil))
}
