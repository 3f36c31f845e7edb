package mutate

import (
	"strings"
	"time"

	"listily/internal/model"
	"listily/internal/store"
)

// AddTask appends a task to the workspace. Empty text and case-insensitive
// duplicates are rejected with sentinels before anything is touched.
func AddTask(db *store.DB, workspaceID, text string, priority *model.Priority, effort *model.Effort, durationMinutes *int) (*model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if _, ok := db.FindWorkspace(workspaceID); !ok {
		return nil, NotFoundError{Kind: "workspace", ID: workspaceID}
	}
	if taskTextExists(db, workspaceID, text, "") {
		return nil, ErrDuplicateTask
	}

	id, err := store.NewID(db, "task")
	if err != nil {
		return nil, err
	}
	t := model.Task{
		ID:              id,
		WorkspaceID:     workspaceID,
		Text:            text,
		CreatedAt:       time.Now().UTC(),
		Priority:        priority,
		Effort:          effort,
		DurationMinutes: durationMinutes,
	}
	db.Tasks = append(db.Tasks, t)
	return &db.Tasks[len(db.Tasks)-1], nil
}

// ToggleTask flips the task's completed flag. Toggling twice restores the
// original value.
func ToggleTask(db *store.DB, id string) (*model.Task, error) {
	t, ok := db.FindTask(id)
	if !ok {
		return nil, NotFoundError{Kind: "task", ID: id}
	}
	t.Completed = !t.Completed
	return t, nil
}

// EditTask replaces a task's text and metadata; the duplicate check excludes
// the task being edited.
func EditTask(db *store.DB, id, text string, priority *model.Priority, effort *model.Effort, durationMinutes *int) (*model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	t, ok := db.FindTask(id)
	if !ok {
		return nil, NotFoundError{Kind: "task", ID: id}
	}
	if taskTextExists(db, t.WorkspaceID, text, id) {
		return nil, ErrDuplicateTask
	}
	t.Text = text
	t.Priority = priority
	t.Effort = effort
	t.DurationMinutes = durationMinutes
	return t, nil
}

func DeleteTask(db *store.DB, id string) error {
	for i := range db.Tasks {
		if db.Tasks[i].ID == id {
			db.Tasks = append(db.Tasks[:i], db.Tasks[i+1:]...)
			return nil
		}
	}
	return NotFoundError{Kind: "task", ID: id}
}

// ClearTasks removes all tasks of the workspace, leaving notes and the
// workspace itself alone.
func ClearTasks(db *store.DB, workspaceID string) error {
	if _, ok := db.FindWorkspace(workspaceID); !ok {
		return NotFoundError{Kind: "workspace", ID: workspaceID}
	}
	kept := db.Tasks[:0]
	for _, t := range db.Tasks {
		if t.WorkspaceID != workspaceID {
			kept = append(kept, t)
		}
	}
	db.Tasks = kept
	return nil
}

func taskTextExists(db *store.DB, workspaceID, text, excludeID string) bool {
	lower := strings.ToLower(text)
	for _, t := range db.Tasks {
		if t.WorkspaceID != workspaceID || t.ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(t.Text)) == lower {
			return true
		}
	}
	return false
}
