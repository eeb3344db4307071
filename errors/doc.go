// Package errors provides the structured error type used across deckurl.
// AppError carries a machine-readable code, a retryable flag, optional
// details, and the underlying cause so errors.Is/As reach the backend error.
package errors
