package domain

import "errors"

var (
	// ErrNotFound signals that the requested entity or audit row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict signals that the authoritative row version read at
	// save time did not match the version the caller based its change on.
	// The whole commit, including audit emission, is aborted.
	ErrVersionConflict = errors.New("row version conflict")

	// ErrNameConflict signals a violation of the per-type unique name constraint.
	ErrNameConflict = errors.New("name already in use")

	// ErrInvalidReference signals a broken foreign key, e.g. an employee
	// pointing at a missing company or a company deleted while still referenced.
	ErrInvalidReference = errors.New("invalid entity reference")

	// ErrAuditEntityMismatch signals a restore request whose audit row does
	// not belong to the target entity id.
	ErrAuditEntityMismatch = errors.New("audit record does not belong to entity")

	// ErrValidation signals a request that failed a basic field check before
	// reaching storage.
	ErrValidation = errors.New("validation failed")
)
