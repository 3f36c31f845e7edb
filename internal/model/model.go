package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority is a task priority bucket, P1 (highest) through P5 (lowest).
type Priority string

// Effort is a task effort estimate, E1 (smallest) through E5 (largest).
type Effort string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
	PriorityP5 Priority = "P5"

	EffortE1 Effort = "E1"
	EffortE2 Effort = "E2"
	EffortE3 Effort = "E3"
	EffortE4 Effort = "E4"
	EffortE5 Effort = "E5"
)

func ParsePriority(s string) (*Priority, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "", "NONE":
		return nil, nil
	case "P1", "P2", "P3", "P4", "P5":
		p := Priority(s)
		return &p, nil
	default:
		return nil, fmt.Errorf("invalid priority: %q (expected P1..P5 or none)", s)
	}
}

func ParseEffort(s string) (*Effort, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "", "NONE":
		return nil, nil
	case "E1", "E2", "E3", "E4", "E5":
		e := Effort(s)
		return &e, nil
	default:
		return nil, fmt.Errorf("invalid effort: %q (expected E1..E5 or none)", s)
	}
}

type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	// PasswordHash is the bcrypt hash of the notes password; empty means the
	// workspace's notes are not protected.
	PasswordHash     string   `json:"passwordHash,omitempty"`
	PasswordHint     string   `json:"passwordHint,omitempty"`
	BackupCodeHashes []string `json:"backupCodeHashes,omitempty"`

	ShowPriority bool `json:"showPriority"`
	ShowEffort   bool `json:"showEffort"`

	// Legacy fields (migrated on load): early snapshots embedded tasks in the
	// workspace and stored the notes password in clear text under one of two keys.
	LegacyTasks         []Task `json:"tasks,omitempty"`
	LegacyPassword      string `json:"password,omitempty"`
	LegacyNotesPassword string `json:"notesPassword,omitempty"`
}

type Task struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Text        string    `json:"text"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`

	Priority *Priority `json:"priority,omitempty"`
	Effort   *Effort   `json:"effort,omitempty"`

	// DurationMinutes drives the optional per-task countdown timer.
	DurationMinutes *int `json:"durationMinutes,omitempty"`
}

type Note struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DraftNoteTitle is the placeholder title a fresh note gets before the user
// has typed anything. A draft still carrying it with empty content is
// discarded instead of persisted.
const DraftNoteTitle = "New Note"

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
