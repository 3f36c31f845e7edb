package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"listily/internal/model"

	_ "modernc.org/sqlite"
)

const eventsFileName = "activity.sqlite"

// AppendEvent records one mutation in the append-only activity log. The log is
// advisory: failures here never block the mutation that triggered them.
func (s Store) AppendEvent(ctx context.Context, typ, entityID string, payload any) error {
	typ = strings.TrimSpace(typ)
	entityID = strings.TrimSpace(entityID)
	if typ == "" || entityID == "" {
		return nil
	}

	db, err := s.openEventLog(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	id, err := newRandomID("ev")
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO events(event_id, type, entity_id, payload_json, created_at_unixms)
		VALUES(?, ?, ?, ?, ?)
	`, id, typ, entityID, string(pb), time.Now().UTC().UnixMilli())
	return err
}

// ReadEvents returns the activity log oldest-first, up to limit (0 = all).
func (s Store) ReadEvents(ctx context.Context, limit int) ([]model.Event, error) {
	db, err := s.openEventLog(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, type, entity_id, payload_json, created_at_unixms
	      FROM events
	      ORDER BY created_at_unixms ASC, event_id ASC`
	var rows *sql.Rows
	if limit > 0 {
		rows, err = db.QueryContext(ctx, q+` LIMIT ?`, limit)
	} else {
		rows, err = db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var id, typ, entityID, payloadJSON string
		var tsMs int64
		if err := rows.Scan(&id, &typ, &entityID, &payloadJSON, &tsMs); err != nil {
			return nil, err
		}
		var payload any
		_ = json.Unmarshal([]byte(payloadJSON), &payload)
		out = append(out, model.Event{
			ID:       id,
			TS:       time.UnixMilli(tsMs).UTC(),
			Type:     typ,
			EntityID: entityID,
			Payload:  payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s Store) openEventLog(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.eventLogPath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when CLI and web share a store.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (s Store) eventLogPath() string {
	return filepath.Join(s.Dir, eventsFileName)
}
