package domain

import "time"

// Entity kind identifiers used to resolve the audit binding for a tracked change.
const (
	KindCompany    = "company"
	KindDepartment = "department"
	KindEmployee   = "employee"
)

// Auditable is implemented by every versioned entity so the change
// interceptor can work with the tracked set without reflection.
type Auditable interface {
	// EntityKind returns the registry key for the entity's audit binding.
	EntityKind() string
	// EntityID returns the storage identity, 0 before the first insert.
	EntityID() int64
	// EntityVersion returns the in-memory optimistic concurrency counter.
	EntityVersion() int64
	// StampPersistence overwrites identity, row version and creation time
	// with the authoritative values read from storage. Called by the
	// interceptor before the surrounding commit proceeds.
	StampPersistence(id int64, rowVersion int64, createdOn *time.Time)
}
