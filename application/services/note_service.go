package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/domain/events"
	"devdash-backend/domain/note"
	apperrors "devdash-backend/pkg/errors"
)

// NoteService manages study notes and their share links.
type NoteService struct {
	repo          ports.NoteRepository
	publisher     ports.EventPublisher
	logger        *zap.Logger
	clock         func() time.Time
	newToken      func() string
	publicBaseURL string
}

func NewNoteService(repo ports.NoteRepository, publisher ports.EventPublisher, logger *zap.Logger, publicBaseURL string) *NoteService {
	return &NoteService{
		repo:          repo,
		publisher:     publisher,
		logger:        logger,
		clock:         time.Now,
		newToken:      uuid.NewString,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// List returns the notes v may read that match query, newest first.
func (s *NoteService) List(ctx context.Context, v note.Viewer, query string) ([]*note.Note, error) {
	notes, err := s.repo.ListVisible(ctx, v)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list notes")
	}
	return note.Filter(notes, query), nil
}

// Create stores a note owned by v.
func (s *NoteService) Create(ctx context.Context, v note.Viewer, title, content, category string) (*note.Note, error) {
	n, err := note.New(uuid.NewString(), title, content, category, v, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, apperrors.Wrap(err, "failed to create note")
	}
	s.logger.Info("note created", zap.String("note_id", n.ID), zap.String("user_id", n.UserID))
	publish(ctx, s.publisher, s.logger, events.NewNoteCreated(n.ID, n.UserID, string(n.Category), n.CreatedAt))
	return n, nil
}

// owned loads a note v is allowed to change. Notes v cannot see are reported
// as missing.
func (s *NoteService) owned(ctx context.Context, v note.Viewer, id string) (*note.Note, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.OwnedBy(v) {
		if !n.VisibleTo(v) {
			return nil, apperrors.NewNotFoundError("note")
		}
		return nil, apperrors.NewForbiddenError("only the owner can change this note")
	}
	return n, nil
}

// Delete removes a note v owns.
func (s *NoteService) Delete(ctx context.Context, v note.Viewer, id string) error {
	if _, err := s.owned(ctx, v, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(err, "failed to delete note")
	}
	publish(ctx, s.publisher, s.logger, events.NewNoteDeleted(id, v.UserID, s.clock()))
	return nil
}

// ToggleShare flips whether a note is shared, reusing its token if it was
// shared before.
func (s *NoteService) ToggleShare(ctx context.Context, v note.Viewer, id string) (*note.Note, error) {
	n, err := s.owned(ctx, v, id)
	if err != nil {
		return nil, err
	}
	n.ToggleShare(s.newToken)
	if err := s.repo.UpdateSharing(ctx, n.ID, n.IsShared, n.ShareToken); err != nil {
		return nil, apperrors.Wrap(err, "failed to update sharing")
	}
	s.logger.Info("note sharing changed", zap.String("note_id", n.ID), zap.Bool("is_shared", n.IsShared))
	publish(ctx, s.publisher, s.logger, events.NewNoteShareToggled(n.ID, n.IsShared, s.clock()))
	return n, nil
}

// GetShared returns the note published under token.
func (s *NoteService) GetShared(ctx context.Context, token string) (*note.Note, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.NewNotFoundError("shared note")
	}
	return s.repo.GetShared(ctx, token)
}

// ShareURL is the public link for a shared note, empty when it is not shared.
func (s *NoteService) ShareURL(n *note.Note) string {
	if !n.IsShared || n.ShareToken == "" {
		return ""
	}
	return s.publicBaseURL + "/notes/shared/" + n.ShareToken
}
