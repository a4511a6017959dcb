package snippet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "devdash-backend/pkg/errors"
)

func TestNewSnippet(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	s, err := New("id", "debounce", "const d = 1", "", now)
	require.NoError(t, err)
	assert.Equal(t, LanguageJavaScript, s.Language)
	assert.Equal(t, now, s.CreatedAt)

	_, err = New("id", "", "x", "python", now)
	assert.True(t, apperrors.IsValidation(err))

	_, err = New("id", "t", "x", "rust", now)
	assert.True(t, apperrors.IsValidation(err))
}
