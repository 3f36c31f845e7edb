package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"listily/internal/lock"
	"listily/internal/model"
)

func writeDB(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, dbFileName), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSeedsMissingFile(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(db.Workspaces) != 1 || db.Workspaces[0].Name != "General" {
		t.Fatalf("seed: %+v", db.Workspaces)
	}
	if db.ActiveWorkspaceID != db.Workspaces[0].ID {
		t.Fatalf("active: %q", db.ActiveWorkspaceID)
	}
	if db.Version != SnapshotVersion {
		t.Fatalf("version: %d", db.Version)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	p := model.PriorityP2
	dur := 25
	db.Tasks = append(db.Tasks, model.Task{
		ID:              "task-abc12345",
		WorkspaceID:     db.ActiveWorkspaceID,
		Text:            "write report",
		CreatedAt:       time.Now().UTC(),
		Priority:        &p,
		DurationMinutes: &dur,
	})
	db.Notes = append(db.Notes, model.Note{
		ID:          "note-abc12345",
		WorkspaceID: db.ActiveWorkspaceID,
		Title:       "Groceries",
		Content:     "milk",
		CreatedAt:   time.Now().UTC(),
	})
	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	task, ok := got.FindTask("task-abc12345")
	if !ok || task.Text != "write report" {
		t.Fatalf("task: %+v", task)
	}
	if task.Priority == nil || *task.Priority != model.PriorityP2 {
		t.Fatalf("priority: %v", task.Priority)
	}
	if task.DurationMinutes == nil || *task.DurationMinutes != 25 {
		t.Fatalf("duration: %v", task.DurationMinutes)
	}
	if _, ok := got.FindNote("note-abc12345"); !ok {
		t.Fatal("note lost in round trip")
	}
}

func TestLoadMigratesFlatTaskArray(t *testing.T) {
	dir := t.TempDir()
	writeDB(t, dir, `[{"text":"old one","completed":true},{"id":"task-keep0001","text":"old two"}]`)

	db, err := (Store{Dir: dir}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(db.Workspaces) != 1 {
		t.Fatalf("workspaces: %+v", db.Workspaces)
	}
	if len(db.Tasks) != 2 {
		t.Fatalf("tasks: %+v", db.Tasks)
	}
	for _, task := range db.Tasks {
		if task.WorkspaceID != db.ActiveWorkspaceID {
			t.Fatalf("task not adopted: %+v", task)
		}
		if task.ID == "" {
			t.Fatalf("task without id: %+v", task)
		}
	}
	if _, ok := db.FindTask("task-keep0001"); !ok {
		t.Fatal("existing id was not preserved")
	}
}

func TestLoadMigratesTodosObject(t *testing.T) {
	dir := t.TempDir()
	writeDB(t, dir, `{"todos":[{"text":"carried over"}]}`)

	db, err := (Store{Dir: dir}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(db.Tasks) != 1 || db.Tasks[0].Text != "carried over" {
		t.Fatalf("tasks: %+v", db.Tasks)
	}
}

func TestLoadMigratesEmbeddedTasksAndPlaintextPassword(t *testing.T) {
	dir := t.TempDir()
	writeDB(t, dir, `{
		"workspaces": [
			{"id":"ws-aaaa0001","name":"Home","tasks":[{"text":"embedded"}],"notesPassword":"hunter22"},
			{"id":"ws-aaaa0002","name":"Old","password":"legacy-pass"}
		],
		"activeWorkspaceId": "ws-aaaa0001"
	}`)

	db, err := (Store{Dir: dir}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(db.Tasks) != 1 || db.Tasks[0].WorkspaceID != "ws-aaaa0001" {
		t.Fatalf("embedded tasks not hoisted: %+v", db.Tasks)
	}
	for _, ws := range db.Workspaces {
		if len(ws.LegacyTasks) != 0 || ws.LegacyPassword != "" || ws.LegacyNotesPassword != "" {
			t.Fatalf("legacy fields survived: %+v", ws)
		}
	}

	home, _ := db.FindWorkspace("ws-aaaa0001")
	if !lock.VerifyPassword(home.PasswordHash, "hunter22") {
		t.Fatal("notesPassword was not hashed")
	}
	old, _ := db.FindWorkspace("ws-aaaa0002")
	if !lock.VerifyPassword(old.PasswordHash, "legacy-pass") {
		t.Fatal("password was not hashed")
	}

	// The migrated shape persists as version 2 with no plaintext secrets.
	if err := (Store{Dir: dir}).Save(db); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, dbFileName))
	if err != nil {
		t.Fatal(err)
	}
	for _, leak := range []string{"hunter22", "legacy-pass", `"notesPassword"`} {
		if strings.Contains(string(raw), leak) {
			t.Fatalf("plaintext %q leaked to disk", leak)
		}
	}
}

func TestLoadFixesDanglingActiveWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeDB(t, dir, `{"workspaces":[{"id":"ws-aaaa0001","name":"Only"}],"activeWorkspaceId":"ws-gone"}`)

	db, err := (Store{Dir: dir}).Load()
	if err != nil {
		t.Fatal(err)
	}
	if db.ActiveWorkspaceID != "ws-aaaa0001" {
		t.Fatalf("active: %q", db.ActiveWorkspaceID)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := model.PriorityP1
	db := &DB{
		Workspaces: []model.Workspace{{ID: "ws-1", BackupCodeHashes: []string{"h1"}}},
		Tasks:      []model.Task{{ID: "task-1", Priority: &p}},
	}
	c := db.Clone()

	c.Workspaces[0].BackupCodeHashes[0] = "changed"
	*c.Tasks[0].Priority = model.PriorityP5

	if db.Workspaces[0].BackupCodeHashes[0] != "h1" {
		t.Fatal("backup code hashes are shared")
	}
	if *db.Tasks[0].Priority != model.PriorityP1 {
		t.Fatal("priority pointer is shared")
	}
}

func TestNewIDHasPrefixAndIsUnique(t *testing.T) {
	db := &DB{}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := NewID(db, "task")
		if err != nil {
			t.Fatal(err)
		}
		if len(id) != len("task-")+8 {
			t.Fatalf("id shape: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id: %q", id)
		}
		seen[id] = true
		db.Tasks = append(db.Tasks, model.Task{ID: id})
	}
}
