package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/domain/ideamap"
	"devdash-backend/infrastructure/persistence/memory"
	apperrors "devdash-backend/pkg/errors"
)

type flakyStore struct {
	err   error
	calls int
}

func (f *flakyStore) ReadOne(context.Context) (*ideamap.Document, error) {
	f.calls++
	return nil, f.err
}

func (f *flakyStore) Update(context.Context, string, ideamap.DocumentFields) error {
	f.calls++
	return f.err
}

func (f *flakyStore) Create(context.Context) (*ideamap.Document, error) {
	f.calls++
	return nil, f.err
}

func testSettings() Settings {
	return Settings{
		Name:             "record-store",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      3,
	}
}

func TestBreakerOpensOnBackendFailures(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{err: errors.New("connection reset")}
	b := NewBreaker(testSettings(), zap.NewNop())
	store := NewIdeaMapStore(inner, b)

	for i := 0; i < 3; i++ {
		_, err := store.ReadOne(ctx)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := store.ReadOne(ctx)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
	assert.Equal(t, 3, inner.calls, "open breaker must not reach the store")
}

func TestBreakerIgnoresMissingRecords(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{err: ports.ErrRecordNotFound}
	b := NewBreaker(testSettings(), zap.NewNop())
	store := NewIdeaMapStore(inner, b)

	for i := 0; i < 5; i++ {
		_, err := store.ReadOne(ctx)
		assert.ErrorIs(t, err, ports.ErrRecordNotFound)
	}
	inner.err = apperrors.NewNotFoundError("idea map x")
	for i := 0; i < 5; i++ {
		assert.True(t, apperrors.IsNotFound(store.Update(ctx, "x", ideamap.DocumentFields{})))
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestRepositoriesPassThrough(t *testing.T) {
	ctx := context.Background()
	b := NewBreaker(testSettings(), zap.NewNop())

	store := NewIdeaMapStore(memory.NewIdeaMapStore(), b)
	doc, err := store.Create(ctx)
	require.NoError(t, err)
	got, err := store.ReadOne(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	snippets := NewSnippetRepository(memory.NewSnippetRepository(), b)
	n, err := snippets.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
