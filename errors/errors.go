package errors

import "fmt"

// AppError is the error type returned across package boundaries.
type AppError struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the wrapped error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets one detail.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges details into the error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// New returns an error whose retryability follows its code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Retryable: code.Retryable()}
}

// MissingField reports a required input left empty.
func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, "missing required field: "+field).WithDetail("field", field)
}

// InvalidInput reports a malformed input. field may be empty.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, "invalid input: "+reason)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation carries the joined messages of a failed validation.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

// StorageRead wraps a failed durable-tier read of key.
func StorageRead(backend, key string, cause error) *AppError {
	return storageError(ErrCodeStorageRead, "read", backend, key, cause)
}

// StorageWrite wraps a failed durable-tier write of key.
func StorageWrite(backend, key string, cause error) *AppError {
	return storageError(ErrCodeStorageWrite, "write", backend, key, cause)
}

// StorageDelete wraps a failed durable-tier remove of key.
func StorageDelete(backend, key string, cause error) *AppError {
	return storageError(ErrCodeStorageDelete, "remove", backend, key, cause)
}

// QuotaExceeded wraps a write the durable tier refused for capacity.
func QuotaExceeded(backend, key string, cause error) *AppError {
	return storageError(ErrCodeQuotaExceeded, "write", backend, key, cause)
}

func storageError(code ErrorCode, op, backend, key string, cause error) *AppError {
	return New(code, fmt.Sprintf("%s %s of %q failed", backend, op, key)).
		WithDetails(map[string]any{"backend": backend, "key": key, "operation": op}).
		WithCause(cause)
}
