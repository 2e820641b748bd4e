package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sukalov/versuri/internal/utils"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Entry is one stored lyrics record.
type Entry struct {
	ID     int64
	Artist string
	Song   string
	Lyrics string
}

const schema = `CREATE TABLE IF NOT EXISTS lyrics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	artist TEXT COLLATE NOCASE,
	song TEXT COLLATE NOCASE,
	lyrics TEXT COLLATE NOCASE
)`

// Manager is the persistent lyrics cache, keyed by (artist, song) with
// case-insensitive matching.
type Manager struct {
	db *sql.DB
}

// NewManager connects using TURSO_DATABASE_URL (and TURSO_AUTH_TOKEN when
// set) from the environment or .env.
func NewManager() (*Manager, error) {
	env, err := utils.LoadEnv([]string{"TURSO_DATABASE_URL"})
	if err != nil {
		return nil, fmt.Errorf("failed to load db env: %w", err)
	}

	url := env["TURSO_DATABASE_URL"]
	if token := utils.OptionalEnv("TURSO_AUTH_TOKEN", ""); token != "" {
		url = fmt.Sprintf("%s?authToken=%s", url, token)
	}
	return Open(url)
}

// Open connects to the database at url and creates the lyrics table if it
// does not exist yet.
func Open(url string) (*Manager, error) {
	conn, err := sql.Open("libsql", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create lyrics table: %w", err)
	}

	return &Manager{db: conn}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// Get returns the lyrics stored for the exact (artist, song) pair. found
// is false both for a missing row and for a row with no lyrics text.
func (m *Manager) Get(ctx context.Context, artist, song string) (lyrics string, found bool, err error) {
	row := m.db.QueryRowContext(ctx,
		"SELECT lyrics FROM lyrics WHERE artist = ? AND song = ? LIMIT 1",
		artist, song)

	var stored sql.NullString
	if err := row.Scan(&stored); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to query lyrics: %w", err)
	}
	if !stored.Valid || stored.String == "" {
		return "", false, nil
	}
	return stored.String, true, nil
}

// Put stores lyrics for an (artist, song) pair. Rows are never updated in
// place; callers must not insert the same pair twice.
func (m *Manager) Put(ctx context.Context, artist, song, lyrics string) error {
	_, err := m.db.ExecContext(ctx,
		"INSERT INTO lyrics (artist, song, lyrics) VALUES (?, ?, ?)",
		artist, song, lyrics)
	if err != nil {
		return fmt.Errorf("failed to insert lyrics: %w", err)
	}
	return nil
}

// All returns every stored entry in database iteration order.
func (m *Manager) All(ctx context.Context) ([]Entry, error) {
	return m.query(ctx, "SELECT id, artist, song, lyrics FROM lyrics")
}

// SearchLyrics returns entries whose lyrics contain substr.
func (m *Manager) SearchLyrics(ctx context.Context, substr string) ([]Entry, error) {
	return m.query(ctx,
		"SELECT id, artist, song, lyrics FROM lyrics WHERE lyrics LIKE ?",
		contains(substr))
}

// SearchArtist returns entries whose artist contains substr.
func (m *Manager) SearchArtist(ctx context.Context, substr string) ([]Entry, error) {
	return m.query(ctx,
		"SELECT id, artist, song, lyrics FROM lyrics WHERE artist LIKE ?",
		contains(substr))
}

func (m *Manager) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := m.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var lyrics sql.NullString
		if err := rows.Scan(&e.ID, &e.Artist, &e.Song, &lyrics); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if lyrics.Valid {
			e.Lyrics = lyrics.String
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return entries, nil
}

func contains(substr string) string {
	return "%" + substr + "%"
}
