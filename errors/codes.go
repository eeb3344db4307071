package errors

// ErrorCode is a stable, machine-readable error kind.
type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"

	// Durable tier failures. The cause is the backend error.
	ErrCodeStorageRead   ErrorCode = "STORAGE_READ"
	ErrCodeStorageWrite  ErrorCode = "STORAGE_WRITE"
	ErrCodeStorageDelete ErrorCode = "STORAGE_DELETE"
	// ErrCodeQuotaExceeded is a write the backend refused for capacity;
	// retrying the same write will not help.
	ErrCodeQuotaExceeded ErrorCode = "QUOTA_EXCEEDED"

	ErrCodeTimeout  ErrorCode = "TIMEOUT"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Retryable reports whether the same call may succeed if repeated.
func (c ErrorCode) Retryable() bool {
	switch c {
	case ErrCodeStorageRead, ErrCodeStorageWrite, ErrCodeStorageDelete, ErrCodeTimeout:
		return true
	}
	return false
}
