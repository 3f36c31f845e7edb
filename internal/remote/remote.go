// Package remote persists snapshots in a SurrealDB document store and streams
// live changes back, so several devices signed into the same account converge
// on the latest write.
package remote

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"listily/internal/store"
)

// Config carries the connection settings for one account's database.
type Config struct {
	Endpoint  string
	Namespace string
	Database  string
	Username  string
	Password  string
}

// Adapter implements the session backend over SurrealDB. Documents live in
// the workspaces, tasks, and notes tables; a single meta record carries the
// active workspace pointer.
type Adapter struct {
	db  *surrealdb.DB
	log zerolog.Logger
}

func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*Adapter, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Endpoint, err)
	}
	if cfg.Username != "" {
		if _, err := db.SignIn(ctx, surrealdb.Auth{
			Username: cfg.Username,
			Password: cfg.Password,
		}); err != nil {
			return nil, fmt.Errorf("sign in: %w", err)
		}
	}
	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, fmt.Errorf("use %s/%s: %w", cfg.Namespace, cfg.Database, err)
	}
	return &Adapter{db: db, log: log}, nil
}

func (a *Adapter) Close(ctx context.Context) error {
	return a.db.Close(ctx)
}

// Load reads all three tables plus the meta record into one snapshot. An
// empty database yields a freshly seeded snapshot.
func (a *Adapter) Load(ctx context.Context) (*store.DB, error) {
	db := &store.DB{}

	workspaces, err := queryAll[workspaceDoc](ctx, a.db, "SELECT * FROM workspaces ORDER BY createdAt")
	if err != nil {
		return nil, fmt.Errorf("load workspaces: %w", err)
	}
	for _, d := range workspaces {
		db.Workspaces = append(db.Workspaces, d.toModel())
	}

	tasks, err := queryAll[taskDoc](ctx, a.db, "SELECT * FROM tasks ORDER BY createdAt")
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	for _, d := range tasks {
		db.Tasks = append(db.Tasks, d.toModel())
	}

	notes, err := queryAll[noteDoc](ctx, a.db, "SELECT * FROM notes ORDER BY createdAt")
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	for _, d := range notes {
		db.Notes = append(db.Notes, d.toModel())
	}

	meta, err := queryAll[metaDoc](ctx, a.db, "SELECT * FROM meta")
	if err != nil {
		return nil, fmt.Errorf("load meta: %w", err)
	}
	if len(meta) > 0 {
		db.ActiveWorkspaceID = meta[0].ActiveWorkspaceID
	}

	store.EnsureDefaults(db)
	return db, nil
}

// Save replaces the remote copy wholesale inside one transaction. Snapshot
// replacement keeps the remote shape identical to the local one and makes
// concurrent writers resolve to the last completed save.
func (a *Adapter) Save(ctx context.Context, db *store.DB) error {
	wsDocs := make([]workspaceDoc, 0, len(db.Workspaces))
	for _, ws := range db.Workspaces {
		wsDocs = append(wsDocs, newWorkspaceDoc(ws))
	}
	taskDocs := make([]taskDoc, 0, len(db.Tasks))
	for _, t := range db.Tasks {
		taskDocs = append(taskDocs, newTaskDoc(t))
	}
	noteDocs := make([]noteDoc, 0, len(db.Notes))
	for _, n := range db.Notes {
		noteDocs = append(noteDocs, newNoteDoc(n))
	}

	const q = `
BEGIN TRANSACTION;
DELETE workspaces;
DELETE tasks;
DELETE notes;
INSERT INTO workspaces $workspaces;
INSERT INTO tasks $tasks;
INSERT INTO notes $notes;
UPSERT meta:snapshot CONTENT { version: $version, activeWorkspaceId: $active };
COMMIT TRANSACTION;
`
	_, err := surrealdb.Query[any](ctx, a.db, q, map[string]any{
		"workspaces": wsDocs,
		"tasks":      taskDocs,
		"notes":      noteDocs,
		"version":    db.Version,
		"active":     db.ActiveWorkspaceID,
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Watch opens a live query per table and re-reads the full snapshot whenever
// any of them fires. The channel closes when ctx is done.
func (a *Adapter) Watch(ctx context.Context) (<-chan *store.DB, error) {
	tables := []string{"workspaces", "tasks", "notes", "meta"}
	wake := make(chan struct{}, 1)
	var liveIDs []string

	for _, table := range tables {
		live, err := surrealdb.Live(ctx, a.db, models.Table(table), false)
		if err != nil {
			a.killAll(liveIDs)
			return nil, fmt.Errorf("live %s: %w", table, err)
		}
		liveIDs = append(liveIDs, live.String())

		notifications, err := a.db.LiveNotifications(live.String())
		if err != nil {
			a.killAll(liveIDs)
			return nil, fmt.Errorf("live notifications %s: %w", table, err)
		}
		go func(table string, ch chan connection.Notification) {
			for range ch {
				select {
				case wake <- struct{}{}:
				default:
				}
			}
			a.log.Debug().Str("table", table).Msg("live query closed")
		}(table, notifications)
	}

	out := make(chan *store.DB, 1)
	go func() {
		defer close(out)
		defer a.killAll(liveIDs)
		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
			}
			snap, err := a.Load(ctx)
			if err != nil {
				a.log.Warn().Err(err).Msg("reload after live notification failed")
				continue
			}
			// Keep only the newest snapshot if the consumer is behind.
			select {
			case out <- snap:
			default:
				select {
				case <-out:
				default:
				}
				out <- snap
			}
		}
	}()
	return out, nil
}

func (a *Adapter) killAll(liveIDs []string) {
	for _, id := range liveIDs {
		if err := surrealdb.Kill(context.Background(), a.db, id); err != nil {
			a.log.Debug().Err(err).Str("live_id", id).Msg("kill live query failed")
		}
	}
}

func queryAll[T any](ctx context.Context, db *surrealdb.DB, q string) ([]T, error) {
	res, err := surrealdb.Query[[]T](ctx, db, q, nil)
	if err != nil {
		return nil, err
	}
	if res == nil || len(*res) == 0 {
		return nil, nil
	}
	return (*res)[0].Result, nil
}
