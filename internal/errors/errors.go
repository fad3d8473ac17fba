package errors

import "fmt"

// ErrorCode represents a Mnemo error code.
type ErrorCode string

const (
	ErrValidation     ErrorCode = "VALIDATION"      // 400 (bad setting value)
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrConflict       ErrorCode = "CONFLICT"        // 409 (suggestion already decided)
	ErrStorageFault   ErrorCode = "STORAGE_FAULT"   // 502
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// MnemoError represents a structured error with code, status, and details.
type MnemoError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *MnemoError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidation creates a 400 error for an invalid setting value.
// Out-of-range values are rejected, never clamped.
func NewValidation(key, msg string) *MnemoError {
	return &MnemoError{
		Code:    ErrValidation,
		Status:  400,
		Message: fmt.Sprintf("invalid value for %s: %s", key, msg),
		Details: map[string]any{"key": key},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *MnemoError {
	return &MnemoError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for an unknown suggestion id.
func NewNotFound(id string) *MnemoError {
	return &MnemoError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("suggestion not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewConflict creates a 409 error for a transition on a non-pending
// suggestion. Clients should refresh their pending list when they see this.
func NewConflict(id, status string) *MnemoError {
	return &MnemoError{
		Code:    ErrConflict,
		Status:  409,
		Message: fmt.Sprintf("suggestion %s is already %s", id, status),
		Details: map[string]any{"id": id, "status": status},
	}
}

// NewStorageFault creates a 502 error for a failed durable write.
func NewStorageFault(err error) *MnemoError {
	msg := "memory store write failed"
	if err != nil {
		msg = fmt.Sprintf("memory store write failed: %v", err)
	}
	return &MnemoError{
		Code:    ErrStorageFault,
		Status:  502,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *MnemoError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &MnemoError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a MnemoError with the given code.
func Is(err error, code ErrorCode) bool {
	if mErr, ok := err.(*MnemoError); ok {
		return mErr.Code == code
	}
	return false
}
