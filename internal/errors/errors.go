package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	ErrCodeNoDueCards         = "NO_DUE_CARDS"
	ErrCodeEmptyQueue         = "EMPTY_QUEUE"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeUnavailable        = "UNAVAILABLE"
)

// Sentinels for the study flow. AppErrors built by the constructors below
// unwrap to them, so errors.Is works on either form.
var (
	ErrCatalogUnavailable = stderrors.New("card catalog unavailable")
	ErrNoDueCards         = stderrors.New("no cards are due")
	ErrEmptyQueue         = stderrors.New("study queue is empty")
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "NO_DUE_CARDS")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// As extracts an AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewCatalogUnavailableError reports that the card source could not be read
// or parsed. A nil cause means no catalog has been loaded yet.
func NewCatalogUnavailableError(cause error) *AppError {
	err := ErrCatalogUnavailable
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrCatalogUnavailable, cause)
	}
	return &AppError{
		Code:    ErrCodeCatalogUnavailable,
		Message: "card catalog is not available",
		Status:  503,
		Err:     err,
	}
}

// NewNoDueCardsError is a notice, not a failure: the caller keeps its session.
func NewNoDueCardsError() *AppError {
	return &AppError{
		Code:    ErrCodeNoDueCards,
		Message: "no cards are due for review",
		Status:  409,
		Err:     ErrNoDueCards,
	}
}

func NewEmptyQueueError(op string) *AppError {
	return &AppError{
		Code:    ErrCodeEmptyQueue,
		Message: fmt.Sprintf("cannot %s: study queue is empty", op),
		Status:  409,
		Err:     ErrEmptyQueue,
	}
}

func NewRateLimitedError() *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: "too many requests",
		Status:  429,
	}
}

// NewUnavailableError reports a temporary condition, such as a full job
// queue, that a retry may clear.
func NewUnavailableError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUnavailable,
		Message: message,
		Status:  503,
		Err:     err,
	}
}
