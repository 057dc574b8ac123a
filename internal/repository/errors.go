package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrReferenced is returned when a delete is blocked by a foreign key.
	ErrReferenced = errors.New("record is still referenced")
)

// Named unique constraints. The in-memory store reports the same names.
const (
	ConstraintUserEmail = "users_email_key"
	ConstraintTagName   = "tags_name_key"
	ConstraintTaskTitle = "tasks_project_title_unique"
)

// UniqueViolation reports which unique constraint rejected a write.
type UniqueViolation struct {
	Constraint string
}

func (e *UniqueViolation) Error() string {
	return fmt.Sprintf("unique constraint %q violated", e.Constraint)
}

// IsUniqueViolation reports whether err was caused by the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var uv *UniqueViolation
	return errors.As(err, &uv) && uv.Constraint == constraint
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return &UniqueViolation{Constraint: pqErr.Constraint}
		case "23503":
			return fmt.Errorf("%w: %s", ErrReferenced, pqErr.Constraint)
		}
	}
	return err
}
