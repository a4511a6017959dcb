package note

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "devdash-backend/pkg/errors"
)

func TestNewNote(t *testing.T) {
	now := time.Now()

	t.Run("requires title and content", func(t *testing.T) {
		_, err := New("1", "", "body", "", Viewer{}, now)
		assert.True(t, apperrors.IsValidation(err))
		_, err = New("1", "title", "  ", "", Viewer{}, now)
		assert.True(t, apperrors.IsValidation(err))
		_, err = New("1", "\t\n ", "body", "", Viewer{}, now)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("owner recorded and not shared", func(t *testing.T) {
		n, err := New("1", "title", "body", "react", Viewer{UserID: "u1"}, now)
		require.NoError(t, err)
		assert.Equal(t, "u1", n.UserID)
		assert.False(t, n.IsShared)
		assert.Equal(t, CategoryReact, n.Category)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := New("1", "title", "body", "golang", Viewer{}, now)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestVisibleTo(t *testing.T) {
	private := &Note{UserID: "u1"}
	shared := &Note{UserID: "u1", IsShared: true}

	assert.True(t, private.VisibleTo(Viewer{UserID: "u1"}))
	assert.False(t, private.VisibleTo(Viewer{UserID: "u2"}))
	assert.False(t, private.VisibleTo(Viewer{}))
	assert.True(t, shared.VisibleTo(Viewer{}))
}

func TestToggleShareReusesToken(t *testing.T) {
	n := &Note{}
	calls := 0
	mint := func() string { calls++; return "tok" }

	n.ToggleShare(mint)
	assert.True(t, n.IsShared)
	n.ToggleShare(mint)
	assert.False(t, n.IsShared)
	n.ToggleShare(mint)

	assert.True(t, n.IsShared)
	assert.Equal(t, "tok", n.ShareToken)
	assert.Equal(t, 1, calls)
}

func TestFilter(t *testing.T) {
	notes := []*Note{
		{Title: "Hooks", Content: "useEffect cleanup", Category: CategoryReact},
		{Title: "Grid", Content: "auto-fit", Category: CategoryCSS},
		{Title: "Stack trace", Content: "TypeError", Category: CategoryError},
	}
	assert.Len(t, Filter(notes, ""), 3)
	assert.Equal(t, []*Note{notes[0]}, Filter(notes, "USEEFFECT"))
	assert.Equal(t, []*Note{notes[1]}, Filter(notes, "css"))
	assert.Empty(t, Filter(notes, "nothing"))

	assert.Len(t, Filter(notes, "   "), 3)
	assert.Equal(t, []*Note{notes[1]}, Filter(notes, "  css "))
	assert.True(t, notes[2].Matches(" typeerror"))
}
