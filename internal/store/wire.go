package store

import (
	"encoding/json"
	"strings"
	"time"

	"listily/internal/lock"
	"listily/internal/model"
)

// loadWireDB parses the raw snapshot bytes, sniffing the legacy flat shape: the
// earliest builds persisted a bare task array (or {"todos": [...]}) with no
// workspaces at all. Those tasks are wrapped into a synthetic "General"
// workspace so the rest of the load path only sees the canonical shape.
func loadWireDB(b []byte) (*DB, error) {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return &DB{}, nil
	}

	if strings.HasPrefix(s, "[") {
		var tasks []model.Task
		if err := json.Unmarshal(b, &tasks); err != nil {
			return nil, err
		}
		return wrapFlatTasks(tasks), nil
	}

	var db DB
	if err := json.Unmarshal(b, &db); err != nil {
		return nil, err
	}

	if len(db.Workspaces) == 0 {
		var legacy struct {
			Todos []model.Task `json:"todos"`
		}
		if err := json.Unmarshal(b, &legacy); err == nil && len(legacy.Todos) > 0 {
			return wrapFlatTasks(legacy.Todos), nil
		}
	}

	return &db, nil
}

func wrapFlatTasks(tasks []model.Task) *DB {
	db := &DB{}
	seedDefaultWorkspace(db)
	wsID := db.Workspaces[0].ID
	for _, t := range tasks {
		t.WorkspaceID = wsID
		if strings.TrimSpace(t.ID) == "" {
			id, err := NewID(db, "task")
			if err != nil {
				continue
			}
			t.ID = id
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now().UTC()
		}
		db.Tasks = append(db.Tasks, t)
	}
	return db
}

func hashLegacyPassword(plain string) (string, error) {
	return lock.HashPassword(plain)
}
