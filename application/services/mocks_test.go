package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"devdash-backend/domain/events"
	"devdash-backend/domain/ideamap"
	"devdash-backend/domain/note"
	"devdash-backend/domain/snippet"
)

type MockSnippetRepository struct {
	mock.Mock
}

func (m *MockSnippetRepository) List(ctx context.Context) ([]*snippet.Snippet, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]*snippet.Snippet)
	return items, args.Error(1)
}

func (m *MockSnippetRepository) Create(ctx context.Context, s *snippet.Snippet) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSnippetRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSnippetRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) ListVisible(ctx context.Context, v note.Viewer) ([]*note.Note, error) {
	args := m.Called(ctx, v)
	items, _ := args.Get(0).([]*note.Note)
	return items, args.Error(1)
}

func (m *MockNoteRepository) GetByID(ctx context.Context, id string) (*note.Note, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(*note.Note)
	return n, args.Error(1)
}

func (m *MockNoteRepository) GetShared(ctx context.Context, token string) (*note.Note, error) {
	args := m.Called(ctx, token)
	n, _ := args.Get(0).(*note.Note)
	return n, args.Error(1)
}

func (m *MockNoteRepository) Create(ctx context.Context, n *note.Note) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNoteRepository) UpdateSharing(ctx context.Context, id string, shared bool, token string) error {
	return m.Called(ctx, id, shared, token).Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockIdeaMapStore struct {
	mock.Mock
}

func (m *MockIdeaMapStore) ReadOne(ctx context.Context) (*ideamap.Document, error) {
	args := m.Called(ctx)
	doc, _ := args.Get(0).(*ideamap.Document)
	return doc, args.Error(1)
}

func (m *MockIdeaMapStore) Update(ctx context.Context, id string, f ideamap.DocumentFields) error {
	return m.Called(ctx, id, f).Error(0)
}

func (m *MockIdeaMapStore) Create(ctx context.Context) (*ideamap.Document, error) {
	args := m.Called(ctx)
	doc, _ := args.Get(0).(*ideamap.Document)
	return doc, args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, e events.DomainEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, es []events.DomainEvent) error {
	return m.Called(ctx, es).Error(0)
}
