// Package handraydb persists recorded hand-ray sessions to sqlite for
// later analysis and visualization.
package handraydb

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/glia-xr/handray/internal/handtrack"
	"github.com/glia-xr/handray/internal/monitoring"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps the session store.
type DB struct {
	*sql.DB
}

// New opens (creating if needed) the session database at path.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply session schema: %w", err)
	}
	monitoring.Logf("session store ready at %s", path)
	return &DB{db}, nil
}

// Session describes one recorded run.
type Session struct {
	SessionID        string
	Label            string
	StartedUnixNanos int64
}

// RayFrameRow is one recorded tick of pipeline output.
type RayFrameRow struct {
	TimestampNanos int64
	Hand           string
	Origin         [3]float64
	Direction      [3]float64
	Pointing       bool
}

// GateEventRow is one recorded gate transition.
type GateEventRow struct {
	TimestampNanos int64
	Hand           string
	Pointing       bool
}

// CreateSession registers a new session and returns its ID.
func (db *DB) CreateSession(label string, startedAt time.Time) (string, error) {
	sessionID := uuid.New().String()
	_, err := db.Exec(
		`INSERT INTO sessions (session_id, label, started_unix_nanos) VALUES (?, ?, ?)`,
		sessionID, label, startedAt.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return sessionID, nil
}

// RecordRayFrame stores one tick of pipeline output.
func (db *DB) RecordRayFrame(sessionID string, snap handtrack.Snapshot) error {
	_, err := db.Exec(
		`INSERT INTO ray_frames
		 (session_id, t_ns, hand, origin_x, origin_y, origin_z, dir_x, dir_y, dir_z, pointing)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, snap.Timestamp.UnixNano(), string(snap.Hand),
		snap.Ray.Origin.X, snap.Ray.Origin.Y, snap.Ray.Origin.Z,
		snap.Ray.Direction.X, snap.Ray.Direction.Y, snap.Ray.Direction.Z,
		snap.Pointing,
	)
	if err != nil {
		return fmt.Errorf("failed to record ray frame: %w", err)
	}
	return nil
}

// RecordGateEvent stores one gate transition.
func (db *DB) RecordGateEvent(sessionID string, ts time.Time, hand handtrack.Handedness, pointing bool) error {
	_, err := db.Exec(
		`INSERT INTO gate_events (session_id, t_ns, hand, pointing) VALUES (?, ?, ?, ?)`,
		sessionID, ts.UnixNano(), string(hand), pointing,
	)
	if err != nil {
		return fmt.Errorf("failed to record gate event: %w", err)
	}
	return nil
}

// Sessions lists recorded sessions, newest first.
func (db *DB) Sessions() ([]Session, error) {
	rows, err := db.Query(
		`SELECT session_id, label, started_unix_nanos FROM sessions ORDER BY started_unix_nanos DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.SessionID, &s.Label, &s.StartedUnixNanos); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// LatestSession returns the most recently started session ID, or an
// error when the store is empty.
func (db *DB) LatestSession() (string, error) {
	var sessionID string
	err := db.QueryRow(
		`SELECT session_id FROM sessions ORDER BY started_unix_nanos DESC LIMIT 1`).Scan(&sessionID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no sessions recorded")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest session: %w", err)
	}
	return sessionID, nil
}

// SessionRayFrames returns a session's recorded frames in time order.
func (db *DB) SessionRayFrames(sessionID string) ([]RayFrameRow, error) {
	rows, err := db.Query(
		`SELECT t_ns, hand, origin_x, origin_y, origin_z, dir_x, dir_y, dir_z, pointing
		 FROM ray_frames WHERE session_id = ? ORDER BY t_ns`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ray frames: %w", err)
	}
	defer rows.Close()

	var frames []RayFrameRow
	for rows.Next() {
		var f RayFrameRow
		if err := rows.Scan(
			&f.TimestampNanos, &f.Hand,
			&f.Origin[0], &f.Origin[1], &f.Origin[2],
			&f.Direction[0], &f.Direction[1], &f.Direction[2],
			&f.Pointing,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ray frame: %w", err)
		}
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

// SessionGateEvents returns a session's gate transitions in time order.
func (db *DB) SessionGateEvents(sessionID string) ([]GateEventRow, error) {
	rows, err := db.Query(
		`SELECT t_ns, hand, pointing FROM gate_events WHERE session_id = ? ORDER BY t_ns`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gate events: %w", err)
	}
	defer rows.Close()

	var events []GateEventRow
	for rows.Next() {
		var e GateEventRow
		if err := rows.Scan(&e.TimestampNanos, &e.Hand, &e.Pointing); err != nil {
			return nil, fmt.Errorf("failed to scan gate event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
