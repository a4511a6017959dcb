package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/domain/events"
	"devdash-backend/domain/snippet"
	apperrors "devdash-backend/pkg/errors"
)

// SnippetService manages saved code snippets.
type SnippetService struct {
	repo      ports.SnippetRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
	clock     func() time.Time
}

func NewSnippetService(repo ports.SnippetRepository, publisher ports.EventPublisher, logger *zap.Logger) *SnippetService {
	return &SnippetService{repo: repo, publisher: publisher, logger: logger, clock: time.Now}
}

// List returns every snippet, newest first.
func (s *SnippetService) List(ctx context.Context) ([]*snippet.Snippet, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list snippets")
	}
	return items, nil
}

// Create validates and stores a snippet.
func (s *SnippetService) Create(ctx context.Context, title, code, language string) (*snippet.Snippet, error) {
	sn, err := snippet.New(uuid.NewString(), title, code, language, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sn); err != nil {
		return nil, apperrors.Wrap(err, "failed to create snippet")
	}

	s.logger.Info("snippet created", zap.String("snippet_id", sn.ID), zap.String("language", string(sn.Language)))
	publish(ctx, s.publisher, s.logger, events.NewSnippetCreated(sn.ID, sn.Title, string(sn.Language), sn.CreatedAt))
	return sn, nil
}

// Delete removes a snippet.
func (s *SnippetService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidationError("snippet id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(err, "failed to delete snippet")
	}
	publish(ctx, s.publisher, s.logger, events.NewSnippetDeleted(id, s.clock()))
	return nil
}

// publish sends e when a publisher is configured. Failures are logged only;
// the change they describe is already stored.
func publish(ctx context.Context, p ports.EventPublisher, logger *zap.Logger, e events.DomainEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logger.Warn("failed to publish event",
			zap.String("event_type", e.GetEventType()),
			zap.String("aggregate_id", e.GetAggregateID()),
			zap.Error(err))
	}
}
