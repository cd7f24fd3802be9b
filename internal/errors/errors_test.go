package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/phrasecards/internal/errors"
)

func TestAppError_Error(t *testing.T) {
	err := errors.NewNotFoundError("card", 12)
	assert.Equal(t, "NOT_FOUND: card not found: 12", err.Error())
	assert.Equal(t, 404, err.Status)

	wrapped := errors.NewInternalError(stderrors.New("disk full"))
	assert.Equal(t, "INTERNAL_ERROR: internal server error (disk full)", wrapped.Error())
}

func TestSentinels(t *testing.T) {
	cause := stderrors.New("connection refused")
	unavailable := errors.NewCatalogUnavailableError(cause)

	assert.ErrorIs(t, unavailable, errors.ErrCatalogUnavailable)
	assert.ErrorIs(t, unavailable, cause)
	assert.Equal(t, 503, unavailable.Status)

	assert.ErrorIs(t, errors.NewCatalogUnavailableError(nil), errors.ErrCatalogUnavailable)
	assert.ErrorIs(t, errors.NewNoDueCardsError(), errors.ErrNoDueCards)

	empty := errors.NewEmptyQueueError("advance")
	assert.ErrorIs(t, empty, errors.ErrEmptyQueue)
	assert.Contains(t, empty.Message, "cannot advance")
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("grading: %w", errors.NewValidationError("grade", "must be between 1 and 5"))

	appErr, ok := errors.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)

	_, ok = errors.As(stderrors.New("plain"))
	assert.False(t, ok)
}
