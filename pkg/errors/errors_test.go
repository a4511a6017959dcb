package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"not found", NewNotFoundError("note"), http.StatusNotFound},
		{"precondition", NewPreconditionError("Delete?"), http.StatusPreconditionRequired},
		{"database", NewDatabaseError("update", fmt.Errorf("boom")), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("plain"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NewForbiddenError("")), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatusOf(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("app error keeps type", func(t *testing.T) {
		err := Wrap(NewNotFoundError("snippet"), "delete")
		require.True(t, IsNotFound(err))
		assert.Equal(t, "delete: snippet not found", GetAppError(err).Message)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := fmt.Errorf("io")
		err := Wrap(cause, "save")
		assert.True(t, IsType(err, ErrorTypeInternal))
		assert.True(t, Is(err, cause))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "noop"))
	})
}

func TestPreconditionCarriesPrompt(t *testing.T) {
	err := NewPreconditionError("Clear everything?")
	assert.Equal(t, "Clear everything?", err.Details["prompt"])
	assert.True(t, IsPrecondition(err))
}
