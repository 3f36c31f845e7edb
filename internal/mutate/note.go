package mutate

import (
	"strings"
	"time"

	"listily/internal/model"
	"listily/internal/store"
)

// Draft is a note that exists only in memory. It becomes a persisted Note via
// SaveDraft, and an abandoned draft simply never touches the snapshot, so
// there is no create-then-delete race.
type Draft struct {
	WorkspaceID string
	Title       string
	Content     string
}

func NewDraft(workspaceID string) Draft {
	return Draft{
		WorkspaceID: workspaceID,
		Title:       model.DraftNoteTitle,
	}
}

// Empty reports whether the draft was abandoned untouched: default title,
// no content.
func (d Draft) Empty() bool {
	title := strings.TrimSpace(d.Title)
	return (title == "" || title == model.DraftNoteTitle) && strings.TrimSpace(d.Content) == ""
}

// SaveDraft persists the draft as a note. Empty drafts are discarded and
// reported with ErrEmptyNote so callers can close the dialog silently.
func SaveDraft(db *store.DB, d Draft) (*model.Note, error) {
	if d.Empty() {
		return nil, ErrEmptyNote
	}
	if _, ok := db.FindWorkspace(d.WorkspaceID); !ok {
		return nil, NotFoundError{Kind: "workspace", ID: d.WorkspaceID}
	}
	id, err := store.NewID(db, "note")
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = model.DraftNoteTitle
	}
	n := model.Note{
		ID:          id,
		WorkspaceID: d.WorkspaceID,
		Title:       title,
		Content:     d.Content,
		CreatedAt:   time.Now().UTC(),
	}
	db.Notes = append(db.Notes, n)
	return &db.Notes[len(db.Notes)-1], nil
}

func EditNote(db *store.DB, id, title, content string) (*model.Note, error) {
	n, ok := db.FindNote(id)
	if !ok {
		return nil, NotFoundError{Kind: "note", ID: id}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = model.DraftNoteTitle
	}
	n.Title = title
	n.Content = content
	return n, nil
}

func DeleteNote(db *store.DB, id string) error {
	for i := range db.Notes {
		if db.Notes[i].ID == id {
			db.Notes = append(db.Notes[:i], db.Notes[i+1:]...)
			return nil
		}
	}
	return NotFoundError{Kind: "note", ID: id}
}
