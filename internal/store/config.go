package store

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir resolves the per-user Listily directory. The env override keeps
// unit tests from touching ~/.listily.
func ConfigDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("LISTILY_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".listily"), nil
}

// UserDataDir returns the data directory for one signed-in user. Local-only
// usage (no account) stores under the "local" user.
func UserDataDir(userID string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = "local"
	}
	return filepath.Join(dir, "users", userID), nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
