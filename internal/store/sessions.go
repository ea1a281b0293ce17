package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fmdgen/internal/spec"
)

// ErrNotFound is returned when a session or snapshot does not exist.
var ErrNotFound = errors.New("not found")

// SessionInfo is one row of the session listing.
type SessionInfo struct {
	ID        string
	Name      string
	CreatedAt string
	Turns     int
}

// Turn is one persisted conversation turn.
type Turn struct {
	Seq            int
	Utterance      string
	Acknowledgment string
	Status         string
}

// CreateSession registers a session. Re-creating an existing ID is a
// no-op so resumed sessions can call this unconditionally.
func (s *Store) CreateSession(ctx context.Context, id, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, name)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SaveTurn appends one turn and the spec snapshot it produced, in a
// single transaction. Writing the same (session, seq) twice is a no-op.
func (s *Store) SaveTurn(ctx context.Context, sessionID string, seq int, t Turn, sp *spec.LevelSpec) error {
	specJSON, err := json.Marshal(sp)
	if err != nil {
		return fmt.Errorf("save turn: marshal spec: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO turns (session_id, seq, utterance, acknowledgment, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`, sessionID, seq, t.Utterance, t.Acknowledgment, t.Status)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (session_id, seq, spec_json)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`, sessionID, seq, string(specJSON))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

// LatestSpec loads the most recent snapshot for a session, along with
// the turn sequence number it was taken at.
func (s *Store) LatestSpec(ctx context.Context, sessionID string) (*spec.LevelSpec, int, error) {
	var (
		seq      int
		specJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, spec_json FROM snapshots
		WHERE session_id = ?
		ORDER BY seq DESC LIMIT 1
	`, sessionID).Scan(&seq, &specJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load snapshot: %w", err)
	}

	out := spec.New()
	if err := json.Unmarshal([]byte(specJSON), out); err != nil {
		return nil, 0, fmt.Errorf("load snapshot: decode spec: %w", err)
	}
	return out, seq, nil
}

// Turns returns a session's turns in sequence order.
func (s *Store) Turns(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, utterance, acknowledgment, status FROM turns
		WHERE session_id = ?
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var out []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.Seq, &t.Utterance, &t.Acknowledgment, &t.Status); err != nil {
			return nil, fmt.Errorf("list turns: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Sessions lists all sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.created_at, COUNT(t.seq)
		FROM sessions s
		LEFT JOIN turns t ON t.session_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.CreatedAt, &info.Turns); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
