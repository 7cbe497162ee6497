// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/lexengine/pkg/types"
)

const dbFile = "audit.db"

// Store is the SQLite-backed audit trail.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the audit database at cfg.Dir/audit.db, creating
// the schema when it does not exist.
func NewStore(cfg types.AuditConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			query TEXT NOT NULL,
			mode TEXT,
			complexity TEXT,
			quality REAL,
			total_rounds INTEGER,
			total_sources INTEGER,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS verifications (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT,
			stage TEXT NOT NULL,
			query_hash TEXT NOT NULL,
			is_valid INTEGER NOT NULL,
			confidence REAL NOT NULL,
			error TEXT,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verifications_session ON verifications(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_verifications_hash ON verifications(query_hash)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ForSession returns a Recorder that tags every verification row with the
// session ID.
func (s *Store) ForSession(sessionID string) *SessionRecorder {
	return &SessionRecorder{store: s, sessionID: sessionID}
}

// SessionRecorder writes verification rows for one session.
type SessionRecorder struct {
	store     *Store
	sessionID string
}

func (r *SessionRecorder) Record(ctx context.Context, result types.VerificationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding verification result: %w", err)
	}
	_, err = r.store.db.ExecContext(ctx,
		`INSERT INTO verifications (session_id, stage, query_hash, is_valid, confidence, error, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.sessionID, string(result.Stage), result.QueryHash,
		result.IsValid, result.Confidence, result.Error,
		string(payload), result.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting verification row: %w", err)
	}
	return nil
}

// SaveSession records the session summary once orchestration finishes.
func (s *Store) SaveSession(ctx context.Context, sessionID, userID, query string, result types.ResearchResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, query, mode, complexity, quality, total_rounds, total_sources, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			user_id=excluded.user_id, mode=excluded.mode, complexity=excluded.complexity,
			quality=excluded.quality, total_rounds=excluded.total_rounds,
			total_sources=excluded.total_sources`,
		sessionID, userID, query, string(result.Analysis.Mode), string(result.Analysis.Complexity),
		result.Analysis.QualityScore, result.Metadata.TotalRounds, result.Metadata.TotalSources,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving session summary: %w", err)
	}
	return nil
}

// SessionSummary is one row of the sessions table.
type SessionSummary struct {
	ID           string    `json:"id" yaml:"id"`
	UserID       string    `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Query        string    `json:"query" yaml:"query"`
	Mode         string    `json:"mode" yaml:"mode"`
	Complexity   string    `json:"complexity" yaml:"complexity"`
	Quality      float64   `json:"quality" yaml:"quality"`
	TotalRounds  int       `json:"total_rounds" yaml:"total_rounds"`
	TotalSources int       `json:"total_sources" yaml:"total_sources"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// ListSessions returns the most recent session summaries, newest first.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(user_id, ''), query, mode, complexity, quality, total_rounds, total_sources, created_at
		 FROM sessions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		var created string
		if err := rows.Scan(&sum.ID, &sum.UserID, &sum.Query, &sum.Mode, &sum.Complexity,
			&sum.Quality, &sum.TotalRounds, &sum.TotalSources, &created); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sum.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Verifications returns the checkpoint trail for a session in insertion
// order.
func (s *Store) Verifications(ctx context.Context, sessionID string) ([]types.VerificationResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM verifications WHERE session_id = ? ORDER BY rowid`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying verifications: %w", err)
	}
	defer rows.Close()

	var out []types.VerificationResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning verification row: %w", err)
		}
		var result types.VerificationResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("decoding verification payload: %w", err)
		}
		out = append(out, result)
	}
	return out, rows.Err()
}
