// Package audit implements the generic audit-trail core: the change
// interceptor that mirrors every committed entity mutation into a parallel
// audit table, the entity-to-audit binding registry, and the snapshot
// reduction used for point-in-time reconstruction.
package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"orgaudit/internal/domain"
)

// ChangeKind classifies a tracked entity in the unit of work.
type ChangeKind int

const (
	ChangeInsert ChangeKind = iota
	ChangeUpdate
	ChangeDelete
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is one tracked entity pending commit. For updates and deletes the
// entity carries the values as loaded by the caller, and ExpectedVersion is
// the row version that load observed.
type Change struct {
	Kind            ChangeKind
	Entity          domain.Auditable
	ExpectedVersion int64
}

// Stamp carries the provenance recorded on every audit row.
type Stamp struct {
	CreatedDate    time.Time
	LoggedUserName *string
}

// Binding is the per-entity-type persistence adapter the interceptor drives.
// One implementation exists per audited entity; the registry associates it
// with the entity kind at startup.
type Binding interface {
	// Kind returns the entity kind this binding serves.
	Kind() string

	// Insert persists a brand-new entity row and stamps the entity with the
	// storage-assigned id, row version 1 and creation time.
	Insert(ctx context.Context, tx pgx.Tx, e domain.Auditable) error

	// Authoritative reads the persisted row version and creation time for
	// the given id, locking the row for the remainder of the transaction.
	// Returns domain.ErrNotFound when the row does not exist.
	Authoritative(ctx context.Context, tx pgx.Tx, id int64) (rowVersion int64, createdOn *time.Time, err error)

	// Update writes the entity's business fields and the given row version.
	Update(ctx context.Context, tx pgx.Tx, e domain.Auditable, rowVersion int64) error

	// Delete removes the entity row.
	Delete(ctx context.Context, tx pgx.Tx, id int64) error

	// AppendAudit writes one audit row mirroring the entity's current
	// business fields, tagged with the operation, version and stamp.
	AppendAudit(ctx context.Context, tx pgx.Tx, e domain.Auditable, op domain.AuditOperation, rowVersion int64, stamp Stamp) error
}

// Clock provides the wall-clock source for CreatedDate stamping. Injectable
// so tests can run against a deterministic clock.
type Clock interface {
	Now() time.Time
}

// Principal resolves the acting user for LoggedUserName stamping. A nil name
// is allowed; an error aborts the whole commit.
type Principal interface {
	UserName(ctx context.Context) (*string, error)
}
