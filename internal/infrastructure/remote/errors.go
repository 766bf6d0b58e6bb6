package remote

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Class says whether retrying a failed remote call can succeed.
type Class int

const (
	// Retryable failures are transient: network, timeouts, server pressure.
	Retryable Class = iota
	// Terminal failures are data or constraint errors; the same payload will
	// fail again.
	Terminal
)

func (c Class) String() string {
	if c == Terminal {
		return "terminal"
	}
	return "retryable"
}

// Error is a failed remote call.
type Error struct {
	Op    string
	Class Class
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote %s (%s): %v", e.Op, e.Class, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Terminal reports whether retrying the call is pointless.
func (e *Error) Terminal() bool {
	return e.Class == Terminal
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Class: Classify(err), Err: err}
}

// Classify maps an error to a Class. Anything it does not recognise is
// treated as retryable.
func Classify(err error) Class {
	var remoteErr *Error
	if errors.As(err, &remoteErr) {
		return remoteErr.Class
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyCode(pgErr.Code)
	}

	if errors.Is(err, gorm.ErrInvalidData) ||
		errors.Is(err, gorm.ErrInvalidValue) ||
		errors.Is(err, gorm.ErrInvalidField) ||
		errors.Is(err, gorm.ErrPrimaryKeyRequired) {
		return Terminal
	}

	return Retryable
}

// classifyCode looks at the SQLSTATE class (first two characters).
func classifyCode(code string) Class {
	if len(code) < 2 {
		return Retryable
	}
	switch code[:2] {
	case "22", // data exception
		"23": // integrity constraint violation
		return Terminal
	default:
		// 08 connection, 40 rollback/serialization, 53 resources,
		// 57 operator intervention, 55P03 lock not available and the rest.
		return Retryable
	}
}

// IsTerminal reports whether err should not be retried.
func IsTerminal(err error) bool {
	return err != nil && Classify(err) == Terminal
}
