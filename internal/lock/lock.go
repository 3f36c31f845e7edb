// Package lock implements the notes password gate: bcrypt password hashing,
// one-time backup codes, and the session-local unlocked set. Lock state is
// derived, never stored: a workspace is locked when it has a password hash
// and its id is not in the session's unlocked set.
package lock

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is enforced where passwords are set, not where they are
// verified, so legacy migrated secrets of any length still unlock.
const MinPasswordLen = 6

// BackupCodeCount is the size of the one-time code set generated whenever a
// password is set or changed.
const BackupCodeCount = 8

var ErrPasswordTooShort = errors.New("password too short")

func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func VerifyPassword(hash, plain string) bool {
	if strings.TrimSpace(hash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GenerateBackupCodes returns the plaintext codes (shown to the user exactly
// once) and their sha256 digests (the only form that is persisted).
func GenerateBackupCodes() (codes []string, hashes []string, err error) {
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	for i := 0; i < BackupCodeCount; i++ {
		var b [5]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, nil, err
		}
		raw := strings.ToUpper(enc.EncodeToString(b[:]))
		code := raw[:4] + "-" + raw[4:]
		codes = append(codes, code)
		hashes = append(hashes, HashBackupCode(code))
	}
	return codes, hashes, nil
}

func HashBackupCode(code string) string {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), "-", ""))
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:])
}

// ConsumeBackupCode verifies code against the stored digests and, on a match,
// returns the remaining set with the matched digest removed. Each code unlocks
// exactly once.
func ConsumeBackupCode(hashes []string, code string) (remaining []string, ok bool) {
	want := HashBackupCode(code)
	for i, h := range hashes {
		if subtle.ConstantTimeCompare([]byte(h), []byte(want)) == 1 {
			remaining = append(remaining, hashes[:i]...)
			remaining = append(remaining, hashes[i+1:]...)
			return remaining, true
		}
	}
	return hashes, false
}

// Gate tracks which protected workspaces the current session has opened, and
// which ones must set a new password after a backup-code unlock. It is held in
// memory only; a new session starts fully locked.
type Gate struct {
	unlocked  map[string]struct{}
	mustReset map[string]struct{}
}

func NewGate() *Gate {
	return &Gate{
		unlocked:  map[string]struct{}{},
		mustReset: map[string]struct{}{},
	}
}

// IsLocked reports whether a workspace with the given password hash is locked
// for this session.
func (g *Gate) IsLocked(workspaceID, passwordHash string) bool {
	if strings.TrimSpace(passwordHash) == "" {
		return false
	}
	_, open := g.unlocked[workspaceID]
	return !open
}

func (g *Gate) Unlock(workspaceID string) {
	g.unlocked[workspaceID] = struct{}{}
}

// Relock drops the session unlock, e.g. after a password is removed or the
// workspace deleted.
func (g *Gate) Relock(workspaceID string) {
	delete(g.unlocked, workspaceID)
	delete(g.mustReset, workspaceID)
}

func (g *Gate) MarkMustReset(workspaceID string) {
	g.mustReset[workspaceID] = struct{}{}
}

// MustReset reports whether the workspace was opened with a backup code and
// still owes a new password.
func (g *Gate) MustReset(workspaceID string) bool {
	_, ok := g.mustReset[workspaceID]
	return ok
}

func (g *Gate) ClearMustReset(workspaceID string) {
	delete(g.mustReset, workspaceID)
}
