// Package session holds the State Core: the authoritative in-memory snapshot
// of one user's workspaces, tasks, and notes, plus the operations the
// presentation layers call. A session owns its storage backend and its lock
// gate; it is created at sign-in and torn down at sign-out, never ambient.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"listily/internal/lock"
	"listily/internal/model"
	"listily/internal/mutate"
	"listily/internal/store"
)

// Backend persists whole snapshots. The local JSON store and the remote
// document adapter both satisfy it.
type Backend interface {
	Load(ctx context.Context) (*store.DB, error)
	Save(ctx context.Context, db *store.DB) error
}

// Watcher is implemented by backends that push externally-changed snapshots
// (the remote document store's live subscription).
type Watcher interface {
	Watch(ctx context.Context) (<-chan *store.DB, error)
}

// ActivityLog records mutations after they are durably applied. Failures are
// logged and ignored; the log is advisory.
type ActivityLog interface {
	AppendEvent(ctx context.Context, typ, entityID string, payload any) error
}

type Session struct {
	mu      sync.Mutex
	backend Backend
	db      *store.DB
	gate    *lock.Gate
	log     zerolog.Logger

	activity ActivityLog
}

type Option func(*Session)

func WithActivityLog(l ActivityLog) Option {
	return func(s *Session) { s.activity = l }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// New loads the initial snapshot from the backend. Every protected workspace
// starts locked.
func New(ctx context.Context, backend Backend, opts ...Option) (*Session, error) {
	db, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	s := &Session{
		backend: backend,
		db:      db,
		gate:    lock.NewGate(),
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// StartWatch consumes the backend's live-update stream, if it has one. The
// latest snapshot replaces in-memory state wholesale (last-write-wins).
func (s *Session) StartWatch(ctx context.Context) error {
	w, ok := s.backend.(Watcher)
	if !ok {
		return nil
	}
	ch, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for snap := range ch {
			if snap == nil {
				continue
			}
			s.mu.Lock()
			s.db = snap
			s.mu.Unlock()
			s.log.Debug().Msg("applied remote snapshot")
		}
	}()
	return nil
}

// mutate clones the snapshot, applies fn, and persists the clone; the live
// snapshot is swapped only after the write succeeds, so a rejected write
// leaves in-memory state at the last successful action.
func (s *Session) mutate(ctx context.Context, typ, entityID string, payload any, fn func(db *store.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.db.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.backend.Save(ctx, next); err != nil {
		s.log.Error().Err(err).Str("op", typ).Msg("persist failed; state unchanged")
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.db = next

	if s.activity != nil {
		if err := s.activity.AppendEvent(ctx, typ, entityID, payload); err != nil {
			s.log.Warn().Err(err).Str("op", typ).Msg("activity log append failed")
		}
	}
	return nil
}

// Snapshot returns a copy of the current state for rendering.
func (s *Session) Snapshot() *store.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Clone()
}

func (s *Session) ActiveWorkspace() model.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws, ok := s.db.FindWorkspace(s.db.ActiveWorkspaceID); ok {
		return *ws
	}
	return s.db.Workspaces[0]
}

func (s *Session) Workspaces() []model.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Workspace, len(s.db.Workspaces))
	copy(out, s.db.Workspaces)
	return out
}

func (s *Session) Tasks(workspaceID string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.TasksOf(workspaceID)
}

func (s *Session) TaskCounts(workspaceID string) (completed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.TaskCounts(workspaceID)
}

// ErrLocked guards note reads on a locked workspace.
var ErrLocked = fmt.Errorf("workspace notes are locked")

// Notes returns the workspace's notes, refusing while the gate is closed.
func (s *Session) Notes(workspaceID string) ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.db.FindWorkspace(workspaceID)
	if !ok {
		return nil, mutate.NotFoundError{Kind: "workspace", ID: workspaceID}
	}
	if s.gate.IsLocked(ws.ID, ws.PasswordHash) {
		return nil, ErrLocked
	}
	return s.db.NotesOf(workspaceID), nil
}

// --- Task operations -------------------------------------------------------

func (s *Session) AddTask(ctx context.Context, text string, priority *model.Priority, effort *model.Effort, durationMinutes *int) (model.Task, error) {
	var out model.Task
	wsID := s.ActiveWorkspace().ID
	err := s.mutate(ctx, "task.add", wsID, map[string]any{"text": text}, func(db *store.DB) error {
		t, err := mutate.AddTask(db, wsID, text, priority, effort, durationMinutes)
		if err != nil {
			return err
		}
		out = *t
		return nil
	})
	return out, err
}

func (s *Session) ToggleTask(ctx context.Context, id string) (model.Task, error) {
	var out model.Task
	err := s.mutate(ctx, "task.toggle", id, nil, func(db *store.DB) error {
		t, err := mutate.ToggleTask(db, id)
		if err != nil {
			return err
		}
		out = *t
		return nil
	})
	return out, err
}

func (s *Session) EditTask(ctx context.Context, id, text string, priority *model.Priority, effort *model.Effort, durationMinutes *int) (model.Task, error) {
	var out model.Task
	err := s.mutate(ctx, "task.edit", id, map[string]any{"text": text}, func(db *store.DB) error {
		t, err := mutate.EditTask(db, id, text, priority, effort, durationMinutes)
		if err != nil {
			return err
		}
		out = *t
		return nil
	})
	return out, err
}

func (s *Session) DeleteTask(ctx context.Context, id string) error {
	return s.mutate(ctx, "task.delete", id, nil, func(db *store.DB) error {
		return mutate.DeleteTask(db, id)
	})
}

// --- Workspace operations --------------------------------------------------

func (s *Session) AddWorkspace(ctx context.Context, name string) (model.Workspace, error) {
	var out model.Workspace
	err := s.mutate(ctx, "workspace.add", "", map[string]any{"name": name}, func(db *store.DB) error {
		ws, err := mutate.AddWorkspace(db, name)
		if err != nil {
			return err
		}
		out = *ws
		return nil
	})
	return out, err
}

func (s *Session) RenameWorkspace(ctx context.Context, id, name string) error {
	return s.mutate(ctx, "workspace.rename", id, map[string]any{"name": name}, func(db *store.DB) error {
		_, err := mutate.RenameWorkspace(db, id, name)
		return err
	})
}

func (s *Session) DeleteWorkspace(ctx context.Context, id string) error {
	err := s.mutate(ctx, "workspace.delete", id, nil, func(db *store.DB) error {
		return mutate.DeleteWorkspace(db, id)
	})
	if err == nil {
		s.mu.Lock()
		s.gate.Relock(id)
		s.mu.Unlock()
	}
	return err
}

func (s *Session) UseWorkspace(ctx context.Context, id string) error {
	return s.mutate(ctx, "workspace.use", id, nil, func(db *store.DB) error {
		return mutate.UseWorkspace(db, id)
	})
}

func (s *Session) ClearTasks(ctx context.Context, id string) error {
	return s.mutate(ctx, "workspace.clear_tasks", id, nil, func(db *store.DB) error {
		return mutate.ClearTasks(db, id)
	})
}

func (s *Session) ClearWorkspace(ctx context.Context, id string) error {
	return s.mutate(ctx, "workspace.clear", id, nil, func(db *store.DB) error {
		return mutate.ClearWorkspace(db, id)
	})
}

func (s *Session) SetShowPriority(ctx context.Context, id string, show bool) error {
	return s.mutate(ctx, "workspace.show_priority", id, map[string]any{"show": show}, func(db *store.DB) error {
		return mutate.SetShowPriority(db, id, show)
	})
}

func (s *Session) SetShowEffort(ctx context.Context, id string, show bool) error {
	return s.mutate(ctx, "workspace.show_effort", id, map[string]any{"show": show}, func(db *store.DB) error {
		return mutate.SetShowEffort(db, id, show)
	})
}

// --- Note operations -------------------------------------------------------

func (s *Session) NewDraft(workspaceID string) mutate.Draft {
	return mutate.NewDraft(workspaceID)
}

// SaveDraft persists a draft; abandoned (empty) drafts are discarded without
// touching storage and reported with mutate.ErrEmptyNote.
func (s *Session) SaveDraft(ctx context.Context, d mutate.Draft) (model.Note, error) {
	if d.Empty() {
		return model.Note{}, mutate.ErrEmptyNote
	}
	var out model.Note
	err := s.mutate(ctx, "note.add", d.WorkspaceID, map[string]any{"title": d.Title}, func(db *store.DB) error {
		n, err := mutate.SaveDraft(db, d)
		if err != nil {
			return err
		}
		out = *n
		return nil
	})
	return out, err
}

func (s *Session) EditNote(ctx context.Context, id, title, content string) error {
	return s.mutate(ctx, "note.edit", id, map[string]any{"title": title}, func(db *store.DB) error {
		_, err := mutate.EditNote(db, id, title, content)
		return err
	})
}

func (s *Session) DeleteNote(ctx context.Context, id string) error {
	return s.mutate(ctx, "note.delete", id, nil, func(db *store.DB) error {
		return mutate.DeleteNote(db, id)
	})
}

// --- Lock operations -------------------------------------------------------

func (s *Session) IsLocked(workspaceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.db.FindWorkspace(workspaceID)
	if !ok {
		return false
	}
	return s.gate.IsLocked(ws.ID, ws.PasswordHash)
}

func (s *Session) MustResetPassword(workspaceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.MustReset(workspaceID)
}

// SetNotesPassword sets or replaces the workspace's notes password. The
// returned backup codes are shown once and never stored in plaintext. The
// setting session keeps the workspace unlocked.
func (s *Session) SetNotesPassword(ctx context.Context, workspaceID, password, hint string) ([]string, error) {
	var codes []string
	err := s.mutate(ctx, "workspace.set_password", workspaceID, nil, func(db *store.DB) error {
		c, err := mutate.SetNotesPassword(db, workspaceID, password, hint)
		if err != nil {
			return err
		}
		codes = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.gate.Unlock(workspaceID)
	s.gate.ClearMustReset(workspaceID)
	s.mu.Unlock()
	return codes, nil
}

func (s *Session) RemoveNotesPassword(ctx context.Context, workspaceID string) error {
	err := s.mutate(ctx, "workspace.remove_password", workspaceID, nil, func(db *store.DB) error {
		return mutate.RemoveNotesPassword(db, workspaceID)
	})
	if err == nil {
		s.mu.Lock()
		s.gate.Relock(workspaceID)
		s.mu.Unlock()
	}
	return err
}

// UnlockWithPassword opens the gate for the rest of this session. A wrong
// password is an ordinary false, never an error.
func (s *Session) UnlockWithPassword(workspaceID, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.db.FindWorkspace(workspaceID)
	if !ok || ws.PasswordHash == "" {
		return false
	}
	if !lock.VerifyPassword(ws.PasswordHash, password) {
		return false
	}
	s.gate.Unlock(workspaceID)
	return true
}

// UnlockWithBackupCode consumes a one-time code: on a match the code is
// removed from the stored set (persisted), the workspace unlocks, and the
// session is marked as owing a new password. A code that fails to persist its
// consumption is not considered used.
func (s *Session) UnlockWithBackupCode(ctx context.Context, workspaceID, code string) bool {
	matched := false
	err := s.mutate(ctx, "workspace.unlock_backup", workspaceID, nil, func(db *store.DB) error {
		ws, ok := db.FindWorkspace(workspaceID)
		if !ok || ws.PasswordHash == "" {
			return mutate.NotFoundError{Kind: "workspace", ID: workspaceID}
		}
		remaining, ok := lock.ConsumeBackupCode(ws.BackupCodeHashes, code)
		if !ok {
			return errBadBackupCode
		}
		ws.BackupCodeHashes = remaining
		matched = true
		return nil
	})
	if err != nil || !matched {
		return false
	}
	s.mu.Lock()
	s.gate.Unlock(workspaceID)
	s.gate.MarkMustReset(workspaceID)
	s.mu.Unlock()
	return true
}

var errBadBackupCode = fmt.Errorf("backup code did not match")

// PasswordHint returns the stored hint, if any.
func (s *Session) PasswordHint(workspaceID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws, ok := s.db.FindWorkspace(workspaceID); ok {
		return ws.PasswordHint
	}
	return ""
}
