// Package note holds study notes and the rules for who may see them.
package note

import (
	"strings"
	"time"

	apperrors "devdash-backend/pkg/errors"
)

type Category string

const (
	CategoryGeneral Category = "general"
	CategoryReact   Category = "react"
	CategoryNextJS  Category = "nextjs"
	CategoryCSS     Category = "css"
	CategoryError   Category = "error"

	DefaultCategory = CategoryGeneral
)

func Categories() []Category {
	return []Category{CategoryGeneral, CategoryReact, CategoryNextJS, CategoryCSS, CategoryError}
}

// ParseCategory maps raw input onto a category; blank input is the default.
func ParseCategory(raw string) (Category, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return DefaultCategory, nil
	}
	for _, c := range Categories() {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", apperrors.NewValidationError("unsupported category: " + raw)
}

type Note struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	Category   Category  `json:"category" db:"category"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UserID     string    `json:"user_id,omitempty" db:"user_id"`
	IsShared   bool      `json:"is_shared" db:"is_shared"`
	ShareToken string    `json:"share_token,omitempty" db:"share_token"`
}

// Viewer is whoever is looking at notes. An empty UserID is an anonymous visitor.
type Viewer struct {
	UserID string
	Email  string
}

func (v Viewer) Anonymous() bool { return v.UserID == "" }

// New validates the input and returns an unsaved note owned by v.
func New(id, title, content, category string, v Viewer, now time.Time) (*Note, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("title and content are required")
	}
	cat, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return &Note{
		ID:        id,
		Title:     title,
		Content:   content,
		Category:  cat,
		CreatedAt: now.UTC(),
		UserID:    v.UserID,
		IsShared:  false,
	}, nil
}

// VisibleTo reports whether v may read n: shared notes are public, the rest
// only to their owner.
func (n *Note) VisibleTo(v Viewer) bool {
	if n.IsShared {
		return true
	}
	return !v.Anonymous() && n.UserID == v.UserID
}

// OwnedBy reports whether v may change n. Notes written anonymously have no
// owner and may be changed by anyone who can see them.
func (n *Note) OwnedBy(v Viewer) bool {
	return n.UserID == "" || n.UserID == v.UserID
}

// ToggleShare flips the shared flag, minting a token the first time the note
// is shared and keeping it afterwards.
func (n *Note) ToggleShare(mint func() string) {
	if n.ShareToken == "" {
		n.ShareToken = mint()
	}
	n.IsShared = !n.IsShared
}

// Matches is a case-insensitive substring test over title, content and category.
func (n *Note) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Content), q) ||
		strings.Contains(strings.ToLower(string(n.Category)), q)
}

// Filter keeps the notes matching query, preserving order.
func Filter(notes []*Note, query string) []*Note {
	if strings.TrimSpace(query) == "" {
		return notes
	}
	out := make([]*Note, 0, len(notes))
	for _, n := range notes {
		if n.Matches(query) {
			out = append(out, n)
		}
	}
	return out
}
