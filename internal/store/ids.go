package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding), ~40 bits of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return prefix + "-" + strings.ToLower(enc.EncodeToString(b[:])), nil
}

// NewID allocates a fresh identifier that does not collide with any entity in
// the snapshot. Prefixes stay readable: ws-xxx, task-xxx, note-xxx.
func NewID(db *DB, prefix string) (string, error) {
	for i := 0; i < 10; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			return "", err
		}
		if !idExists(db, id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("id space exhausted for prefix %q", prefix)
}

func idExists(db *DB, id string) bool {
	for _, ws := range db.Workspaces {
		if ws.ID == id {
			return true
		}
	}
	for _, t := range db.Tasks {
		if t.ID == id {
			return true
		}
	}
	for _, n := range db.Notes {
		if n.ID == id {
			return true
		}
	}
	return false
}
