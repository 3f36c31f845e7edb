package mutate

import (
	"errors"
	"fmt"
)

// Validation failures are sentinels so presentation layers can map them to
// inline messages instead of treating them as faults.
var (
	ErrEmptyText     = errors.New("task text is empty")
	ErrDuplicateTask = errors.New("task already exists in this workspace")
	ErrEmptyName     = errors.New("workspace name is empty")
	ErrDuplicateName = errors.New("workspace name already in use")
	ErrLastWorkspace = errors.New("cannot delete the last workspace")
	ErrEmptyNote     = errors.New("note is empty")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsValidation reports whether err is a user-correctable validation failure
// rather than a persistence fault.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyText),
		errors.Is(err, ErrDuplicateTask),
		errors.Is(err, ErrEmptyName),
		errors.Is(err, ErrDuplicateName),
		errors.Is(err, ErrLastWorkspace),
		errors.Is(err, ErrEmptyNote):
		return true
	}
	var nf NotFoundError
	return errors.As(err, &nf)
}
