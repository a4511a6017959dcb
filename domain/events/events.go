// Package events defines the facts the dashboard publishes after a change
// has been persisted.
package events

import "time"

// DomainEvent is something that has already happened.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func base(aggregateID, eventType string, at time.Time) BaseEvent {
	return BaseEvent{AggregateID: aggregateID, EventType: eventType, Timestamp: at, Version: 1}
}

const (
	TypeIdeaMapSaved     = "ideamap.saved"
	TypeSnippetCreated   = "snippet.created"
	TypeSnippetDeleted   = "snippet.deleted"
	TypeNoteCreated      = "note.created"
	TypeNoteDeleted      = "note.deleted"
	TypeNoteShareToggled = "note.share_toggled"
)

// IdeaMapSaved is raised after the canvas has been written to its record.
type IdeaMapSaved struct {
	BaseEvent
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

func NewIdeaMapSaved(recordID string, nodes, edges int, at time.Time) IdeaMapSaved {
	return IdeaMapSaved{BaseEvent: base(recordID, TypeIdeaMapSaved, at), NodeCount: nodes, EdgeCount: edges}
}

type SnippetCreated struct {
	BaseEvent
	Title    string `json:"title"`
	Language string `json:"language"`
}

func NewSnippetCreated(id, title, language string, at time.Time) SnippetCreated {
	return SnippetCreated{BaseEvent: base(id, TypeSnippetCreated, at), Title: title, Language: language}
}

type SnippetDeleted struct {
	BaseEvent
}

func NewSnippetDeleted(id string, at time.Time) SnippetDeleted {
	return SnippetDeleted{BaseEvent: base(id, TypeSnippetDeleted, at)}
}

type NoteCreated struct {
	BaseEvent
	UserID   string `json:"user_id,omitempty"`
	Category string `json:"category"`
}

func NewNoteCreated(id, userID, category string, at time.Time) NoteCreated {
	return NoteCreated{BaseEvent: base(id, TypeNoteCreated, at), UserID: userID, Category: category}
}

type NoteDeleted struct {
	BaseEvent
	UserID string `json:"user_id,omitempty"`
}

func NewNoteDeleted(id, userID string, at time.Time) NoteDeleted {
	return NoteDeleted{BaseEvent: base(id, TypeNoteDeleted, at), UserID: userID}
}

// NoteShareToggled carries the sharing state after the toggle.
type NoteShareToggled struct {
	BaseEvent
	IsShared bool `json:"is_shared"`
}

func NewNoteShareToggled(id string, shared bool, at time.Time) NoteShareToggled {
	return NoteShareToggled{BaseEvent: base(id, TypeNoteShareToggled, at), IsShared: shared}
}
