// Package sqlstore keeps dashboard data in a SQL database through
// database/sql: Postgres via the pgx driver, or a local SQLite file.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers "sqlite"
)

// Dialect covers the differences between the supported databases.
type Dialect struct {
	Name       string
	DriverName string
	JSONType   string
	TimeType   string
	BoolType   string
	// positional renders the n-th (1-based) bind parameter.
	positional func(n int) string
}

var (
	Postgres = Dialect{
		Name:       "postgres",
		DriverName: "pgx",
		JSONType:   "JSONB",
		TimeType:   "TIMESTAMPTZ",
		BoolType:   "BOOLEAN",
		positional: func(n int) string { return "$" + strconv.Itoa(n) },
	}
	SQLite = Dialect{
		Name:       "sqlite",
		DriverName: "sqlite",
		JSONType:   "TEXT",
		TimeType:   "TIMESTAMP",
		BoolType:   "BOOLEAN",
		positional: func(int) string { return "?" },
	}
)

// rebind replaces each "?" in query with the dialect's placeholder.
func (d Dialect) rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.positional(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Store owns the connection pool shared by the repositories.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// Open connects to dsn and creates the tables if they are missing.
func Open(ctx context.Context, d Dialect, dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name, err)
	}
	if d.Name == SQLite.Name {
		// one writer at a time, and ":memory:" databases live per connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name, err)
	}
	s := &Store{db: db, dialect: d, logger: logger}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("sql store ready", zap.String("dialect", d.Name))
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	d := s.dialect
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS idea_maps (
			id TEXT PRIMARY KEY,
			nodes %[1]s NOT NULL,
			edges %[1]s NOT NULL,
			created_at %[2]s NOT NULL,
			updated_at %[2]s NOT NULL
		)`, d.JSONType, d.TimeType),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS snippets (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			code TEXT NOT NULL,
			language TEXT NOT NULL,
			created_at %s NOT NULL
		)`, d.TimeType),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT NOT NULL,
			created_at %[1]s NOT NULL,
			user_id TEXT,
			is_shared %[2]s NOT NULL DEFAULT FALSE,
			share_token TEXT
		)`, d.TimeType, d.BoolType),
		`CREATE INDEX IF NOT EXISTS notes_share_token_idx ON notes (share_token)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.dialect.Name, err)
		}
	}
	return nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// IdeaMaps, Snippets and Notes return repositories sharing this pool.
func (s *Store) IdeaMaps() *IdeaMapStore { return &IdeaMapStore{s} }
func (s *Store) Snippets() *SnippetRepository { return &SnippetRepository{s} }
func (s *Store) Notes() *NoteRepository { return &NoteRepository{s} }

// timestamp scans the time representations the drivers return: time.Time
// from pgx, and time.Time or text from sqlite.
type timestamp struct {
	time.Time
}

func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into timestamp", src)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

func (t *timestamp) parse(s string) error {
	// sqlite may hand back the String() form, which carries a monotonic suffix
	if i := strings.Index(s, " m="); i >= 0 {
		s = s[:i]
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised time %q", s)
}

// Value stores times in UTC so both drivers round-trip them.
func (t timestamp) Value() (driver.Value, error) {
	return t.Time.UTC(), nil
}
