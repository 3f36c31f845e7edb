package session

import (
	"context"

	"listily/internal/store"
)

// LocalBackend adapts the on-disk JSON store to the Backend interface.
type LocalBackend struct {
	Store store.Store
}

func (b LocalBackend) Load(ctx context.Context) (*store.DB, error) {
	return b.Store.Load()
}

func (b LocalBackend) Save(ctx context.Context, db *store.DB) error {
	return b.Store.Save(db)
}
