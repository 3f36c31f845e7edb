package remote

import (
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"

	"listily/internal/model"
)

// The document shapes mirror the snapshot types field for field. The record
// id is derived from the entity id so repeated saves stay stable, while the
// entity id is kept as a plain field for portability with the local store.

type workspaceDoc struct {
	ID  *models.RecordID `json:"id,omitempty"`
	Key string           `json:"key"`

	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	PasswordHash     string   `json:"passwordHash,omitempty"`
	PasswordHint     string   `json:"passwordHint,omitempty"`
	BackupCodeHashes []string `json:"backupCodeHashes,omitempty"`

	ShowPriority bool `json:"showPriority"`
	ShowEffort   bool `json:"showEffort"`
}

func newWorkspaceDoc(ws model.Workspace) workspaceDoc {
	rid := models.NewRecordID("workspaces", ws.ID)
	return workspaceDoc{
		ID:               &rid,
		Key:              ws.ID,
		Name:             ws.Name,
		CreatedAt:        ws.CreatedAt,
		PasswordHash:     ws.PasswordHash,
		PasswordHint:     ws.PasswordHint,
		BackupCodeHashes: ws.BackupCodeHashes,
		ShowPriority:     ws.ShowPriority,
		ShowEffort:       ws.ShowEffort,
	}
}

func (d workspaceDoc) toModel() model.Workspace {
	return model.Workspace{
		ID:               d.Key,
		Name:             d.Name,
		CreatedAt:        d.CreatedAt,
		PasswordHash:     d.PasswordHash,
		PasswordHint:     d.PasswordHint,
		BackupCodeHashes: d.BackupCodeHashes,
		ShowPriority:     d.ShowPriority,
		ShowEffort:       d.ShowEffort,
	}
}

type taskDoc struct {
	ID  *models.RecordID `json:"id,omitempty"`
	Key string           `json:"key"`

	WorkspaceID string    `json:"workspaceId"`
	Text        string    `json:"text"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`

	Priority        *model.Priority `json:"priority,omitempty"`
	Effort          *model.Effort   `json:"effort,omitempty"`
	DurationMinutes *int            `json:"durationMinutes,omitempty"`
}

func newTaskDoc(t model.Task) taskDoc {
	rid := models.NewRecordID("tasks", t.ID)
	return taskDoc{
		ID:              &rid,
		Key:             t.ID,
		WorkspaceID:     t.WorkspaceID,
		Text:            t.Text,
		Completed:       t.Completed,
		CreatedAt:       t.CreatedAt,
		Priority:        t.Priority,
		Effort:          t.Effort,
		DurationMinutes: t.DurationMinutes,
	}
}

func (d taskDoc) toModel() model.Task {
	return model.Task{
		ID:              d.Key,
		WorkspaceID:     d.WorkspaceID,
		Text:            d.Text,
		Completed:       d.Completed,
		CreatedAt:       d.CreatedAt,
		Priority:        d.Priority,
		Effort:          d.Effort,
		DurationMinutes: d.DurationMinutes,
	}
}

type noteDoc struct {
	ID  *models.RecordID `json:"id,omitempty"`
	Key string           `json:"key"`

	WorkspaceID string    `json:"workspaceId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newNoteDoc(n model.Note) noteDoc {
	rid := models.NewRecordID("notes", n.ID)
	return noteDoc{
		ID:          &rid,
		Key:         n.ID,
		WorkspaceID: n.WorkspaceID,
		Title:       n.Title,
		Content:     n.Content,
		CreatedAt:   n.CreatedAt,
	}
}

func (d noteDoc) toModel() model.Note {
	return model.Note{
		ID:          d.Key,
		WorkspaceID: d.WorkspaceID,
		Title:       d.Title,
		Content:     d.Content,
		CreatedAt:   d.CreatedAt,
	}
}

type metaDoc struct {
	ID                *models.RecordID `json:"id,omitempty"`
	Version           int              `json:"version"`
	ActiveWorkspaceID string           `json:"activeWorkspaceId"`
}
