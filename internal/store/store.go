package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"listily/internal/model"
)

const dbFileName = "listily.json"

// SnapshotVersion is the canonical on-disk schema version. Version 0 covers
// both legacy shapes (flat task array; workspace-embedded tasks); they are
// migrated to the canonical shape on load and written back as version 2.
const SnapshotVersion = 2

// DB is the full snapshot of one user's data: the single source of truth the
// session mutates in memory and persists as a whole.
type DB struct {
	Version           int               `json:"version"`
	ActiveWorkspaceID string            `json:"activeWorkspaceId,omitempty"`
	Workspaces        []model.Workspace `json:"workspaces"`
	Tasks             []model.Task      `json:"tasks"`
	Notes             []model.Note      `json:"notes"`
}

type Store struct {
	Dir string
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) dbPath() string {
	return filepath.Join(s.Dir, dbFileName)
}

// Load reads the snapshot, migrating legacy shapes in memory. An empty or
// missing store yields a seeded snapshot with one "General" workspace, so the
// at-least-one-workspace invariant holds from the first load.
func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(s.dbPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			db := &DB{Version: SnapshotVersion}
			seedDefaultWorkspace(db)
			return db, nil
		}
		return nil, err
	}

	db, err := loadWireDB(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", dbFileName, err)
	}

	migrateEmbeddedTasks(db)
	migrateLegacySecrets(db)
	seedDefaultWorkspace(db)
	ensureActiveWorkspace(db)
	db.Version = SnapshotVersion

	return db, nil
}

func (s Store) Save(db *DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	db.Version = SnapshotVersion
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, dbFileName+".*.tmp", s.dbPath(), b, 0o600)
}

// EnsureDefaults makes an arbitrary snapshot usable: a seeded default
// workspace when empty, a valid active workspace id, the current version.
func EnsureDefaults(db *DB) {
	seedDefaultWorkspace(db)
	ensureActiveWorkspace(db)
	db.Version = SnapshotVersion
}

func seedDefaultWorkspace(db *DB) {
	if len(db.Workspaces) > 0 {
		return
	}
	ws := model.Workspace{
		ID:        "ws-general",
		Name:      "General",
		CreatedAt: time.Now().UTC(),
	}
	db.Workspaces = append(db.Workspaces, ws)
	db.ActiveWorkspaceID = ws.ID
}

func ensureActiveWorkspace(db *DB) {
	if _, ok := db.FindWorkspace(db.ActiveWorkspaceID); ok {
		return
	}
	db.ActiveWorkspaceID = db.Workspaces[0].ID
}

// migrateEmbeddedTasks hoists workspace-embedded task arrays into the
// canonical foreign-key list. Embedded tasks without ids get fresh ones.
func migrateEmbeddedTasks(db *DB) {
	for i := range db.Workspaces {
		ws := &db.Workspaces[i]
		for _, t := range ws.LegacyTasks {
			t.WorkspaceID = ws.ID
			if strings.TrimSpace(t.ID) == "" {
				id, err := NewID(db, "task")
				if err != nil {
					continue
				}
				t.ID = id
			}
			db.Tasks = append(db.Tasks, t)
		}
		ws.LegacyTasks = nil
	}
}

// migrateLegacySecrets converts clear-text notes passwords (stored under
// either legacy key) into bcrypt hashes. Old snapshots had no backup codes;
// those are only generated the next time a password is set.
func migrateLegacySecrets(db *DB) {
	for i := range db.Workspaces {
		ws := &db.Workspaces[i]
		plain := strings.TrimSpace(ws.LegacyNotesPassword)
		if plain == "" {
			plain = strings.TrimSpace(ws.LegacyPassword)
		}
		ws.LegacyPassword = ""
		ws.LegacyNotesPassword = ""
		if plain == "" || ws.PasswordHash != "" {
			continue
		}
		h, err := hashLegacyPassword(plain)
		if err != nil {
			continue
		}
		ws.PasswordHash = h
	}
}

func (db *DB) FindWorkspace(id string) (*model.Workspace, bool) {
	for i := range db.Workspaces {
		if db.Workspaces[i].ID == id {
			return &db.Workspaces[i], true
		}
	}
	return nil, false
}

func (db *DB) FindWorkspaceByName(name string) (*model.Workspace, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range db.Workspaces {
		if strings.ToLower(strings.TrimSpace(db.Workspaces[i].Name)) == name {
			return &db.Workspaces[i], true
		}
	}
	return nil, false
}

func (db *DB) FindTask(id string) (*model.Task, bool) {
	for i := range db.Tasks {
		if db.Tasks[i].ID == id {
			return &db.Tasks[i], true
		}
	}
	return nil, false
}

func (db *DB) FindNote(id string) (*model.Note, bool) {
	for i := range db.Notes {
		if db.Notes[i].ID == id {
			return &db.Notes[i], true
		}
	}
	return nil, false
}

// TasksOf returns the workspace's tasks oldest-first.
func (db *DB) TasksOf(workspaceID string) []model.Task {
	var out []model.Task
	for _, t := range db.Tasks {
		if t.WorkspaceID == workspaceID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// NotesOf returns the workspace's notes newest-first.
func (db *DB) NotesOf(workspaceID string) []model.Note {
	var out []model.Note
	for _, n := range db.Notes {
		if n.WorkspaceID == workspaceID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// TaskCounts returns (completed, total) for a workspace.
func (db *DB) TaskCounts(workspaceID string) (completed, total int) {
	for _, t := range db.Tasks {
		if t.WorkspaceID != workspaceID {
			continue
		}
		total++
		if t.Completed {
			completed++
		}
	}
	return completed, total
}

// Clone deep-copies the snapshot. Mutations run against a clone and the
// session swaps pointers only after the write succeeds.
func (db *DB) Clone() *DB {
	out := &DB{
		Version:           db.Version,
		ActiveWorkspaceID: db.ActiveWorkspaceID,
		Workspaces:        make([]model.Workspace, len(db.Workspaces)),
		Tasks:             make([]model.Task, len(db.Tasks)),
		Notes:             make([]model.Note, len(db.Notes)),
	}
	copy(out.Workspaces, db.Workspaces)
	copy(out.Tasks, db.Tasks)
	copy(out.Notes, db.Notes)
	for i := range out.Workspaces {
		if src := db.Workspaces[i].BackupCodeHashes; src != nil {
			out.Workspaces[i].BackupCodeHashes = append([]string(nil), src...)
		}
	}
	for i := range out.Tasks {
		if p := db.Tasks[i].Priority; p != nil {
			v := *p
			out.Tasks[i].Priority = &v
		}
		if e := db.Tasks[i].Effort; e != nil {
			v := *e
			out.Tasks[i].Effort = &v
		}
		if d := db.Tasks[i].DurationMinutes; d != nil {
			v := *d
			out.Tasks[i].DurationMinutes = &v
		}
	}
	return out
}
