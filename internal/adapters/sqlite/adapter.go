// Package sqlite provides a SQLite-backed implementation of the result repository port.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/typetune/internal/core/domain"
	"github.com/ewilliams-labs/typetune/internal/core/ports"
)

// Adapter implements the repository port for SQLite
type Adapter struct {
	db *sql.DB
}

var _ ports.ResultRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// Each connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	// Auto-migrate on startup for local dev
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// Save inserts the result, replacing any row with the same result_id.
func (a *Adapter) Save(ctx context.Context, r domain.SharedResult) error {
	breakdown, err := json.Marshal(r.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to encode breakdown: %w", err)
	}
	tracks := r.TracksUsed
	if tracks == nil {
		tracks = []map[string]any{}
	}
	tracksUsed, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("failed to encode tracks_used: %w", err)
	}

	query := `
		INSERT INTO results (result_id, mbti, summary, breakdown, tracks_used, user_name, spotify_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(result_id) DO UPDATE SET
			mbti=excluded.mbti,
			summary=excluded.summary,
			breakdown=excluded.breakdown,
			tracks_used=excluded.tracks_used,
			user_name=excluded.user_name,
			spotify_id=excluded.spotify_id;
	`
	if _, err := a.db.ExecContext(ctx, query,
		r.ResultID,
		r.MBTI,
		r.Summary,
		string(breakdown),
		string(tracksUsed),
		nullString(r.User),
		nullString(r.SpotifyID),
	); err != nil {
		return fmt.Errorf("failed to save result %s: %w", r.ResultID, err)
	}
	return nil
}

func (a *Adapter) GetByID(ctx context.Context, id string) (domain.SharedResult, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT result_id, mbti, summary, breakdown, tracks_used, user_name, spotify_id
		FROM results WHERE result_id = ?
	`, id)

	var (
		r          domain.SharedResult
		breakdown  string
		tracksUsed string
		user       sql.NullString
		spotifyID  sql.NullString
	)
	if err := row.Scan(&r.ResultID, &r.MBTI, &r.Summary, &breakdown, &tracksUsed, &user, &spotifyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SharedResult{}, domain.ErrNotFound
		}
		return domain.SharedResult{}, fmt.Errorf("failed to load result: %w", err)
	}

	if err := json.Unmarshal([]byte(breakdown), &r.Breakdown); err != nil {
		return domain.SharedResult{}, fmt.Errorf("failed to decode breakdown: %w", err)
	}
	if err := json.Unmarshal([]byte(tracksUsed), &r.TracksUsed); err != nil {
		return domain.SharedResult{}, fmt.Errorf("failed to decode tracks_used: %w", err)
	}
	if r.TracksUsed == nil {
		r.TracksUsed = []map[string]any{}
	}
	if user.Valid {
		r.User = &user.String
	}
	if spotifyID.Valid {
		r.SpotifyID = &spotifyID.String
	}
	return r, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS results (
		result_id TEXT PRIMARY KEY,
		mbti TEXT NOT NULL,
		summary TEXT NOT NULL,
		breakdown TEXT NOT NULL,
		tracks_used TEXT NOT NULL DEFAULT '[]',
		user_name TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	if _, err := a.db.Exec("ALTER TABLE results ADD COLUMN spotify_id TEXT"); err != nil {
		if !isDuplicateColumnError(err) {
			return err
		}
	}

	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}
