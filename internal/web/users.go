package web

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Users is the account registry backing signup and login, persisted as
// users.json in the data dir. Passwords are stored as bcrypt hashes.
type Users struct {
	mu   sync.Mutex
	dir  string
	list []User
}

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type usersFile struct {
	Users []User `json:"users"`
}

var (
	ErrEmailTaken      = errors.New("email is already registered")
	ErrBadCredentials  = errors.New("unknown email or wrong password")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("password must be at least 6 characters")
)

func LoadUsers(dir string) (*Users, error) {
	u := &Users{dir: dir}
	b, err := os.ReadFile(u.path())
	if errors.Is(err, os.ErrNotExist) {
		return u, nil
	}
	if err != nil {
		return nil, err
	}
	var f usersFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", u.path(), err)
	}
	u.list = f.Users
	return u, nil
}

func (u *Users) path() string {
	return filepath.Join(u.dir, "users.json")
}

func (u *Users) save() error {
	b, err := json.MarshalIndent(usersFile{Users: u.list}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(u.path(), b, 0o600)
}

// Signup registers a new account and returns it.
func (u *Users) Signup(email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, ErrInvalidEmail
	}
	if len(password) < 6 {
		return User{}, ErrInvalidPassword
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.list {
		if existing.Email == email {
			return User{}, ErrEmailTaken
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	id, err := newUserID()
	if err != nil {
		return User{}, err
	}
	user := User{ID: id, Email: email, PasswordHash: string(hash)}
	u.list = append(u.list, user)
	if err := u.save(); err != nil {
		u.list = u.list[:len(u.list)-1]
		return User{}, err
	}
	return user, nil
}

// Login verifies credentials. Unknown email and wrong password are the same
// error so the response does not leak which accounts exist.
func (u *Users) Login(email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.list {
		if user.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return User{}, ErrBadCredentials
		}
		return user, nil
	}
	return User{}, ErrBadCredentials
}

func (u *Users) Find(id string) (User, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.list {
		if user.ID == id {
			return user, true
		}
	}
	return User{}, false
}

var userIDEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

func newUserID() (string, error) {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "user-" + strings.ToLower(userIDEncoding.EncodeToString(b)), nil
}
