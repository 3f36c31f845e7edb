package mutate

import (
	"strings"
	"time"

	"listily/internal/lock"
	"listily/internal/model"
	"listily/internal/store"
)

// AddWorkspace creates a workspace and makes it active. Names are unique
// case-insensitively across the user's set.
func AddWorkspace(db *store.DB, name string) (*model.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, ok := db.FindWorkspaceByName(name); ok {
		return nil, ErrDuplicateName
	}
	id, err := store.NewID(db, "ws")
	if err != nil {
		return nil, err
	}
	ws := model.Workspace{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	db.Workspaces = append(db.Workspaces, ws)
	db.ActiveWorkspaceID = id
	return &db.Workspaces[len(db.Workspaces)-1], nil
}

// RenameWorkspace applies the same name checks as AddWorkspace, excluding the
// workspace being renamed.
func RenameWorkspace(db *store.DB, id, name string) (*model.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	ws, ok := db.FindWorkspace(id)
	if !ok {
		return nil, NotFoundError{Kind: "workspace", ID: id}
	}
	if other, ok := db.FindWorkspaceByName(name); ok && other.ID != id {
		return nil, ErrDuplicateName
	}
	ws.Name = name
	return ws, nil
}

// DeleteWorkspace removes the workspace and cascades to its tasks and notes.
// A user always keeps at least one workspace; deleting the active one
// activates the first remaining.
func DeleteWorkspace(db *store.DB, id string) error {
	if len(db.Workspaces) <= 1 {
		return ErrLastWorkspace
	}
	idx := -1
	for i := range db.Workspaces {
		if db.Workspaces[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return NotFoundError{Kind: "workspace", ID: id}
	}
	db.Workspaces = append(db.Workspaces[:idx], db.Workspaces[idx+1:]...)
	dropWorkspaceEntities(db, id)
	if db.ActiveWorkspaceID == id {
		db.ActiveWorkspaceID = db.Workspaces[0].ID
	}
	return nil
}

// ClearWorkspace removes the workspace's tasks and notes without deleting the
// workspace itself.
func ClearWorkspace(db *store.DB, id string) error {
	if _, ok := db.FindWorkspace(id); !ok {
		return NotFoundError{Kind: "workspace", ID: id}
	}
	dropWorkspaceEntities(db, id)
	return nil
}

func dropWorkspaceEntities(db *store.DB, workspaceID string) {
	keptTasks := db.Tasks[:0]
	for _, t := range db.Tasks {
		if t.WorkspaceID != workspaceID {
			keptTasks = append(keptTasks, t)
		}
	}
	db.Tasks = keptTasks

	keptNotes := db.Notes[:0]
	for _, n := range db.Notes {
		if n.WorkspaceID != workspaceID {
			keptNotes = append(keptNotes, n)
		}
	}
	db.Notes = keptNotes
}

func UseWorkspace(db *store.DB, id string) error {
	if _, ok := db.FindWorkspace(id); !ok {
		return NotFoundError{Kind: "workspace", ID: id}
	}
	db.ActiveWorkspaceID = id
	return nil
}

func SetShowPriority(db *store.DB, id string, show bool) error {
	ws, ok := db.FindWorkspace(id)
	if !ok {
		return NotFoundError{Kind: "workspace", ID: id}
	}
	ws.ShowPriority = show
	return nil
}

func SetShowEffort(db *store.DB, id string, show bool) error {
	ws, ok := db.FindWorkspace(id)
	if !ok {
		return NotFoundError{Kind: "workspace", ID: id}
	}
	ws.ShowEffort = show
	return nil
}

// SetNotesPassword sets or replaces the workspace's notes password and
// regenerates the one-time backup codes, invalidating all prior ones. The
// plaintext codes are returned to be shown exactly once.
func SetNotesPassword(db *store.DB, id, password, hint string) ([]string, error) {
	if len(password) < lock.MinPasswordLen {
		return nil, lock.ErrPasswordTooShort
	}
	ws, ok := db.FindWorkspace(id)
	if !ok {
		return nil, NotFoundError{Kind: "workspace", ID: id}
	}
	hash, err := lock.HashPassword(password)
	if err != nil {
		return nil, err
	}
	codes, codeHashes, err := lock.GenerateBackupCodes()
	if err != nil {
		return nil, err
	}
	ws.PasswordHash = hash
	ws.PasswordHint = strings.TrimSpace(hint)
	ws.BackupCodeHashes = codeHashes
	return codes, nil
}

// RemoveNotesPassword clears the lock secret, hint, and any remaining backup
// codes.
func RemoveNotesPassword(db *store.DB, id string) error {
	ws, ok := db.FindWorkspace(id)
	if !ok {
		return NotFoundError{Kind: "workspace", ID: id}
	}
	ws.PasswordHash = ""
	ws.PasswordHint = ""
	ws.BackupCodeHashes = nil
	return nil
}
