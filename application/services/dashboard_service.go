package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"devdash-backend/application/ports"
	"devdash-backend/domain/note"
	apperrors "devdash-backend/pkg/errors"
)

// Summary feeds the cards on the landing page.
type Summary struct {
	Snippets     int `json:"snippets"`
	Notes        int `json:"notes"`
	SharedNotes  int `json:"shared_notes"`
	IdeaMapNodes int `json:"idea_map_nodes"`
	IdeaMapEdges int `json:"idea_map_edges"`
}

// DashboardService aggregates counts from every feature.
type DashboardService struct {
	snippets ports.SnippetRepository
	notes    ports.NoteRepository
	ideaMap  ports.IdeaMapStore
	logger   *zap.Logger
}

func NewDashboardService(snippets ports.SnippetRepository, notes ports.NoteRepository, ideaMap ports.IdeaMapStore, logger *zap.Logger) *DashboardService {
	return &DashboardService{snippets: snippets, notes: notes, ideaMap: ideaMap, logger: logger}
}

// Summary queries the three stores concurrently. A missing idea-map record
// counts as an empty map.
func (s *DashboardService) Summary(ctx context.Context, v note.Viewer) (*Summary, error) {
	var sum Summary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.snippets.Count(gctx)
		if err != nil {
			return apperrors.Wrap(err, "count snippets")
		}
		sum.Snippets = n
		return nil
	})
	g.Go(func() error {
		notes, err := s.notes.ListVisible(gctx, v)
		if err != nil {
			return apperrors.Wrap(err, "list notes")
		}
		sum.Notes = len(notes)
		for _, n := range notes {
			if n.IsShared {
				sum.SharedNotes++
			}
		}
		return nil
	})
	g.Go(func() error {
		doc, err := s.ideaMap.ReadOne(gctx)
		if apperrors.Is(err, ports.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return apperrors.Wrap(err, "read idea map")
		}
		sum.IdeaMapNodes = len(doc.Nodes)
		sum.IdeaMapEdges = len(doc.Edges)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to build dashboard summary", zap.Error(err))
		return nil, err
	}
	return &sum, nil
}
