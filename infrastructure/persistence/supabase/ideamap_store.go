package supabase

import (
	"context"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/domain/ideamap"
	apperrors "devdash-backend/pkg/errors"
)

// IdeaMapStore reads and writes the idea_maps table. The table holds one row
// whose nodes and edges columns are JSON arrays.
type IdeaMapStore struct {
	client *supa.Client
	table  string
	logger *zap.Logger
}

func NewIdeaMapStore(client *supa.Client, table string, logger *zap.Logger) *IdeaMapStore {
	return &IdeaMapStore{client: client, table: table, logger: logger}
}

// ReadOne returns the first row of the table.
func (s *IdeaMapStore) ReadOne(ctx context.Context) (*ideamap.Document, error) {
	var rows []ideamap.Document
	_, err := s.client.From(s.table).
		Select("*", "", false).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, apperrors.NewDatabaseError("select idea map", err)
	}
	if len(rows) == 0 {
		return nil, ports.ErrRecordNotFound
	}
	return &rows[0], nil
}

// Update overwrites nodes, edges and updated_at of row id.
func (s *IdeaMapStore) Update(ctx context.Context, id string, f ideamap.DocumentFields) error {
	var rows []struct {
		ID string `json:"id"`
	}
	_, err := s.client.From(s.table).
		Update(f, "representation", "").
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return apperrors.NewDatabaseError("update idea map", err)
	}
	if len(rows) == 0 {
		return apperrors.NewNotFoundError("idea map " + id)
	}
	s.logger.Debug("idea map row updated", zap.String("record_id", id), zap.Int("nodes", len(f.Nodes)))
	return nil
}

// Create inserts an empty row and lets the database assign its id.
func (s *IdeaMapStore) Create(ctx context.Context) (*ideamap.Document, error) {
	empty := map[string]any{
		"nodes": []ideamap.NodeRecord{},
		"edges": []ideamap.EdgeRecord{},
	}
	var rows []ideamap.Document
	_, err := s.client.From(s.table).
		Insert(empty, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, apperrors.NewDatabaseError("insert idea map", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewInternalError("insert idea map returned no row")
	}
	return &rows[0], nil
}

var _ ports.IdeaMapStore = (*IdeaMapStore)(nil)
