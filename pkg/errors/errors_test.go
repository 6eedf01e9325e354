package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewNotFound("board")
	assert.Equal(t, "NOT_FOUND: board not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)

	cause := stderrors.New("dial tcp: refused")
	wrapped := Wrap(cause, ErrCodeInternal, "storage unavailable", http.StatusInternalServerError)
	assert.Contains(t, wrapped.Error(), "caused by")
	assert.ErrorIs(t, wrapped, cause)
}

func TestGetFindsAppErrorInChain(t *testing.T) {
	appErr := NewForbidden("nope")
	chained := fmt.Errorf("handler: %w", appErr)

	got := Get(chained)
	require.NotNil(t, got)
	assert.Equal(t, ErrCodeForbidden, got.Code)

	assert.Nil(t, Get(stderrors.New("plain")))
	assert.Nil(t, Get(nil))
}

func TestWithContext(t *testing.T) {
	err := NewInvalidInput("bad field").
		WithContext("field", "name").
		WithContext("value", 42)

	assert.Equal(t, "name", err.Context["field"])
	assert.Equal(t, 42, err.Context["value"])
}
