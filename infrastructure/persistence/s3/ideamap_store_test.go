package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/domain/ideamap"
	apperrors "devdash-backend/pkg/errors"
)

// fakeBucket keeps objects in memory.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
}

func newFakeBucket() *fakeBucket { return &fakeBucket{objects: map[string][]byte{}} }

func (f *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = body
	f.puts++
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBucket) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestIdeaMapStore(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeBucket()
	store := NewIdeaMapStore(bucket, "maps", "", zap.NewNop())

	_, err := store.ReadOne(ctx)
	require.ErrorIs(t, err, ports.ErrRecordNotFound)

	err = store.Update(ctx, "nope", ideamap.DocumentFields{})
	assert.True(t, apperrors.IsNotFound(err))

	doc, err := store.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)

	_, err = store.Create(ctx)
	assert.True(t, apperrors.IsConflict(err))

	fields := ideamap.DocumentFields{
		Nodes:     []ideamap.NodeRecord{{ID: "1", Type: ideamap.NodeType, Data: ideamap.NodeData{Label: "root", Color: "green"}}},
		Edges:     []ideamap.EdgeRecord{},
		UpdatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, store.Update(ctx, doc.ID, fields))

	got, err := store.ReadOne(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, "root", got.Nodes[0].Data.Label)
	assert.True(t, fields.UpdatedAt.Equal(got.UpdatedAt))

	err = store.Update(ctx, "other-id", fields)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 2, bucket.puts)
}

func TestReadOneRejectsCorruptObject(t *testing.T) {
	bucket := newFakeBucket()
	bucket.objects["ideamap/document.json"] = []byte("{not json")
	_, err := NewIdeaMapStore(bucket, "maps", "", zap.NewNop()).ReadOne(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabase))
}

func TestDocumentShape(t *testing.T) {
	bucket := newFakeBucket()
	store := NewIdeaMapStore(bucket, "maps", "graphs/main.json", zap.NewNop())
	doc, err := store.Create(context.Background())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(bucket.objects["graphs/main.json"], &raw))
	assert.Equal(t, doc.ID, raw["id"])
	assert.Contains(t, raw, "nodes")
	assert.Contains(t, raw, "edges")
	assert.Contains(t, raw, "updated_at")
}
