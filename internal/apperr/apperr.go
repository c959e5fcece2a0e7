// Package apperr defines the domain error taxonomy shared by the
// relationship, shelf, statistics and notification services.
//
// Validation failures are detected before any write; the same conditions
// can also be lost races resolved by a store unique constraint. FromDB maps
// the constraint violation back onto the error pre-validation would have
// produced, so callers see identical behavior either way.
package apperr

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Kind partitions domain errors by the caller-facing outcome.
type Kind int

const (
	// KindValidation rejects a request that can never succeed as written
	// (self-friend, default-shelf rename, book already on shelf, ...).
	KindValidation Kind = iota

	// KindConflict rejects a request because an equivalent entity already
	// exists; also the translation of a lost uniqueness race.
	KindConflict

	// KindNotFound means the target entity does not exist or is not
	// visible to the caller.
	KindNotFound

	// KindForbidden means the caller is not the actor this operation
	// requires (e.g. only the recipient may accept a request).
	KindForbidden
)

// Error is a structured domain error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New constructs an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error { return New(KindValidation, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }
func Forbidden(message string) *Error  { return New(KindForbidden, message) }

// Is lets errors.Is match two domain errors by kind and message.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind && e.Message == other.Message
}

// FromDB translates a store error into the domain. A unique-constraint
// violation becomes onDuplicate, the same error the pre-write validation
// for that invariant produces, so a race loser is indistinguishable from
// an ordinary duplicate. Record-not-found becomes KindNotFound.
func FromDB(err error, onDuplicate *Error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) && onDuplicate != nil {
		return onDuplicate
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("record not found")
	}
	return err
}

// StatusCode maps a domain error to an HTTP status for the transport layer.
// Unknown errors map to 500.
func StatusCode(err error) int {
	var domainErr *Error
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}
	switch domainErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
