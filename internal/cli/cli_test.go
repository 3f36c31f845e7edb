package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// run executes one CLI invocation against a fixed data dir, as scripts would,
// with JSON output for stable assertions.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--dir", dir, "--format", "json"))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) map[string]any {
	t.Helper()
	out, err := run(t, dir, args...)
	if err != nil {
		t.Fatalf("listily %s: %v", strings.Join(args, " "), err)
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("listily %s: bad JSON %q: %v", strings.Join(args, " "), out, err)
	}
	return v
}

func setupDir(t *testing.T) string {
	t.Helper()
	t.Setenv("LISTILY_CONFIG_DIR", t.TempDir())
	return t.TempDir()
}

func TestTaskAddListDone(t *testing.T) {
	dir := setupDir(t)

	added := mustRun(t, dir, "task", "add", "write", "report", "--priority", "P2")
	task := added["data"].(map[string]any)
	if task["text"] != "write report" || task["priority"] != "P2" {
		t.Fatalf("add: %v", task)
	}
	id := task["id"].(string)

	listed := mustRun(t, dir, "task", "list")
	if n := len(listed["data"].([]any)); n != 1 {
		t.Fatalf("list: %d tasks", n)
	}

	done := mustRun(t, dir, "task", "done", id)
	if done["data"].(map[string]any)["completed"] != true {
		t.Fatalf("done: %v", done)
	}

	// Completed tasks drop out of the default listing.
	listed = mustRun(t, dir, "task", "list")
	if _, ok := listed["data"].([]any); ok && len(listed["data"].([]any)) != 0 {
		t.Fatalf("list after done: %v", listed["data"])
	}
	listedAll := mustRun(t, dir, "task", "list", "--all")
	if n := len(listedAll["data"].([]any)); n != 1 {
		t.Fatalf("list --all: %d tasks", n)
	}
}

func TestTaskDuplicateRejected(t *testing.T) {
	dir := setupDir(t)

	mustRun(t, dir, "task", "add", "buy milk")
	if _, err := run(t, dir, "task", "add", "Buy", "Milk"); err == nil {
		t.Fatal("duplicate task accepted")
	}
}

func TestWorkspaceFlow(t *testing.T) {
	dir := setupDir(t)

	created := mustRun(t, dir, "workspace", "add", "Work")
	wsID := created["data"].(map[string]any)["id"].(string)

	listed := mustRun(t, dir, "workspace", "list")
	rows := listed["data"].([]any)
	if len(rows) != 2 {
		t.Fatalf("workspaces: %v", rows)
	}

	// New workspace became active; tasks land there.
	mustRun(t, dir, "task", "add", "ship release")
	mustRun(t, dir, "workspace", "use", "General")
	generalTasks := mustRun(t, dir, "task", "list")
	if data, ok := generalTasks["data"].([]any); ok && len(data) != 0 {
		t.Fatalf("General should be empty: %v", data)
	}

	if _, err := run(t, dir, "workspace", "rename", wsID, "Job"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := run(t, dir, "workspace", "rm", "Job"); err != nil {
		t.Fatalf("rm: %v", err)
	}
	// Deleting the last one is refused.
	if _, err := run(t, dir, "workspace", "rm", "General"); err == nil {
		t.Fatal("deleted the last workspace")
	}
}

func TestNotesDraftAndLock(t *testing.T) {
	dir := setupDir(t)

	// Empty drafts never persist.
	if _, err := run(t, dir, "notes", "add"); err == nil {
		t.Fatal("empty note accepted")
	}

	saved := mustRun(t, dir, "notes", "add", "remember", "the", "milk")
	note := saved["data"].(map[string]any)
	if note["title"] != "New Note" {
		t.Fatalf("default title: %v", note)
	}

	locked := mustRun(t, dir, "lock", "set", "hunter22", "--hint", "usual")
	codes := locked["data"].(map[string]any)["backupCodes"].([]any)
	if len(codes) != 8 {
		t.Fatalf("backup codes: %v", codes)
	}

	// A fresh invocation is a fresh session, so the workspace starts locked.
	if _, err := run(t, dir, "notes", "list"); err == nil {
		t.Fatal("locked notes listed without a password")
	}
	if _, err := run(t, dir, "notes", "list", "--password", "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
	listed := mustRun(t, dir, "notes", "list", "--password", "hunter22")
	if n := len(listed["data"].([]any)); n != 1 {
		t.Fatalf("notes list unlocked: %v", listed["data"])
	}
}

func TestBackupCodeIsConsumedAcrossRuns(t *testing.T) {
	dir := setupDir(t)

	mustRun(t, dir, "notes", "add", "secret plans")
	locked := mustRun(t, dir, "lock", "set", "hunter22")
	codes := locked["data"].(map[string]any)["backupCodes"].([]any)
	code := codes[0].(string)

	if _, err := run(t, dir, "lock", "open", "--code", code); err != nil {
		t.Fatalf("lock open with code: %v", err)
	}
	// The code was spent and persisted; a later run rejects it.
	if _, err := run(t, dir, "lock", "open", "--code", code); err == nil {
		t.Fatal("backup code worked twice")
	}

	status := mustRun(t, dir, "lock", "status")
	ws := status["data"].([]any)[0].(map[string]any)
	if ws["backupCodesLeft"] != float64(7) {
		t.Fatalf("codes left: %v", ws)
	}
}

func TestLockStatusReflectsProtection(t *testing.T) {
	dir := setupDir(t)

	mustRun(t, dir, "lock", "set", "hunter22")
	status := mustRun(t, dir, "lock", "status")
	rows := status["data"].([]any)
	ws := rows[0].(map[string]any)
	if ws["hasPassword"] != true {
		t.Fatalf("status: %v", ws)
	}
	if ws["backupCodesLeft"] != float64(8) {
		t.Fatalf("backup codes left: %v", ws)
	}
}

func TestEventsRecorded(t *testing.T) {
	dir := setupDir(t)

	mustRun(t, dir, "task", "add", "one")
	mustRun(t, dir, "task", "add", "two")

	events := mustRun(t, dir, "events")
	rows, _ := events["data"].([]any)
	if len(rows) != 2 {
		t.Fatalf("events: %v", events["data"])
	}
	first := rows[0].(map[string]any)
	if first["type"] != "task.add" {
		t.Fatalf("event type: %v", first)
	}
}
