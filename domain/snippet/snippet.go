// Package snippet holds saved code snippets.
package snippet

import (
	"strings"
	"time"

	apperrors "devdash-backend/pkg/errors"
)

type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguagePython     Language = "python"
	LanguageCSS        Language = "css"

	DefaultLanguage = LanguageJavaScript
)

// Languages lists the accepted languages in display order.
func Languages() []Language {
	return []Language{LanguageJavaScript, LanguageTypeScript, LanguagePython, LanguageCSS}
}

// ParseLanguage maps raw input onto a language; blank input is the default.
func ParseLanguage(raw string) (Language, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return DefaultLanguage, nil
	}
	for _, l := range Languages() {
		if string(l) == raw {
			return l, nil
		}
	}
	return "", apperrors.NewValidationError("unsupported language: " + raw)
}

type Snippet struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Code      string    `json:"code" db:"code"`
	Language  Language  `json:"language" db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// New validates the input and returns an unsaved snippet stamped with now.
func New(id, title, code, language string, now time.Time) (*Snippet, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(code) == "" {
		return nil, apperrors.NewValidationError("title and code are required")
	}
	lang, err := ParseLanguage(language)
	if err != nil {
		return nil, err
	}
	return &Snippet{ID: id, Title: title, Code: code, Language: lang, CreatedAt: now.UTC()}, nil
}
