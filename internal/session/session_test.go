package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"listily/internal/model"
	"listily/internal/mutate"
	"listily/internal/store"
)

// memBackend keeps snapshots in memory and can be told to fail saves.
type memBackend struct {
	db       *store.DB
	failSave bool
	saves    int
	watch    chan *store.DB
}

func newMemBackend() *memBackend {
	ws := model.Workspace{ID: "ws-general", Name: "General", CreatedAt: time.Now().UTC()}
	return &memBackend{db: &store.DB{
		Version:           store.SnapshotVersion,
		ActiveWorkspaceID: ws.ID,
		Workspaces:        []model.Workspace{ws},
	}}
}

func (b *memBackend) Load(ctx context.Context) (*store.DB, error) {
	return b.db.Clone(), nil
}

func (b *memBackend) Save(ctx context.Context, db *store.DB) error {
	if b.failSave {
		return errors.New("backend down")
	}
	b.saves++
	b.db = db.Clone()
	return nil
}

func (b *memBackend) Watch(ctx context.Context) (<-chan *store.DB, error) {
	b.watch = make(chan *store.DB, 1)
	return b.watch, nil
}

func newTestSession(t *testing.T) (*Session, *memBackend) {
	t.Helper()
	b := newMemBackend()
	s, err := New(context.Background(), b)
	require.NoError(t, err)
	return s, b
}

func TestAddTaskPersistsAndSwaps(t *testing.T) {
	s, b := newTestSession(t)
	ctx := context.Background()

	task, err := s.AddTask(ctx, "write report", nil, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	require.Equal(t, 1, b.saves)

	tasks := s.Tasks("ws-general")
	require.Len(t, tasks, 1)
	require.Equal(t, "write report", tasks[0].Text)
}

func TestRejectedMutationLeavesStateUnchanged(t *testing.T) {
	s, b := newTestSession(t)
	ctx := context.Background()

	_, err := s.AddTask(ctx, "buy milk", nil, nil, nil)
	require.NoError(t, err)

	_, err = s.AddTask(ctx, "  Buy Milk ", nil, nil, nil)
	require.ErrorIs(t, err, mutate.ErrDuplicateTask)
	require.Equal(t, 1, b.saves)
	require.Len(t, s.Tasks("ws-general"), 1)
}

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	s, b := newTestSession(t)
	ctx := context.Background()

	b.failSave = true
	_, err := s.AddTask(ctx, "doomed", nil, nil, nil)
	require.Error(t, err)
	require.Empty(t, s.Tasks("ws-general"))

	b.failSave = false
	_, err = s.AddTask(ctx, "doomed", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, s.Tasks("ws-general"), 1)
}

func TestEmptyDraftIsDiscarded(t *testing.T) {
	s, b := newTestSession(t)
	ctx := context.Background()

	d := s.NewDraft("ws-general")
	require.Equal(t, model.DraftNoteTitle, d.Title)

	_, err := s.SaveDraft(ctx, d)
	require.ErrorIs(t, err, mutate.ErrEmptyNote)
	require.Zero(t, b.saves)

	d.Content = "remember the milk"
	note, err := s.SaveDraft(ctx, d)
	require.NoError(t, err)
	require.Equal(t, model.DraftNoteTitle, note.Title)

	notes, err := s.Notes("ws-general")
	require.NoError(t, err)
	require.Len(t, notes, 1)
}

func TestLockGateBlocksNotes(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	codes, err := s.SetNotesPassword(ctx, "ws-general", "hunter22", "the usual")
	require.NoError(t, err)
	require.Len(t, codes, 8)

	// The setting session stays unlocked.
	require.False(t, s.IsLocked("ws-general"))
	_, err = s.Notes("ws-general")
	require.NoError(t, err)

	// A fresh session over the same backend starts locked.
	s2, err := New(ctx, &memBackend{db: s.Snapshot()})
	require.NoError(t, err)
	require.True(t, s2.IsLocked("ws-general"))
	_, err = s2.Notes("ws-general")
	require.ErrorIs(t, err, ErrLocked)

	require.False(t, s2.UnlockWithPassword("ws-general", "wrong"))
	require.True(t, s2.UnlockWithPassword("ws-general", "hunter22"))
	require.False(t, s2.IsLocked("ws-general"))
	require.Equal(t, "the usual", s2.PasswordHint("ws-general"))
}

func TestBackupCodeIsSingleUse(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	codes, err := s.SetNotesPassword(ctx, "ws-general", "hunter22", "")
	require.NoError(t, err)

	s2, err := New(ctx, &memBackend{db: s.Snapshot()})
	require.NoError(t, err)

	require.False(t, s2.UnlockWithBackupCode(ctx, "ws-general", "NOPE-NOPE"))
	require.True(t, s2.UnlockWithBackupCode(ctx, "ws-general", codes[0]))
	require.False(t, s2.IsLocked("ws-general"))
	require.True(t, s2.MustResetPassword("ws-general"))

	// The consumed code is gone for any later session.
	s3, err := New(ctx, &memBackend{db: s2.Snapshot()})
	require.NoError(t, err)
	require.False(t, s3.UnlockWithBackupCode(ctx, "ws-general", codes[0]))
	require.True(t, s3.UnlockWithBackupCode(ctx, "ws-general", codes[1]))
}

func TestRemovePasswordClearsSecrets(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.SetNotesPassword(ctx, "ws-general", "hunter22", "hint")
	require.NoError(t, err)
	require.NoError(t, s.RemoveNotesPassword(ctx, "ws-general"))

	snap := s.Snapshot()
	ws, ok := snap.FindWorkspace("ws-general")
	require.True(t, ok)
	require.Empty(t, ws.PasswordHash)
	require.Empty(t, ws.PasswordHint)
	require.Empty(t, ws.BackupCodeHashes)
	require.False(t, s.IsLocked("ws-general"))
}

func TestWatchReplacesSnapshot(t *testing.T) {
	b := newMemBackend()
	s, err := New(context.Background(), b)
	require.NoError(t, err)
	require.NoError(t, s.StartWatch(context.Background()))

	remote := b.db.Clone()
	remote.Tasks = append(remote.Tasks, model.Task{
		ID: "task-remote01", WorkspaceID: "ws-general", Text: "pushed elsewhere",
	})
	b.watch <- remote

	require.Eventually(t, func() bool {
		return len(s.Tasks("ws-general")) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, "pushed elsewhere", s.Tasks("ws-general")[0].Text)
}
