// Package uow provides the unit of work: a per-operation collector of
// tracked entity changes that commits them, with their audit rows, in one
// transaction.
package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	"orgaudit/internal/audit"
	"orgaudit/internal/domain"
)

// TxRunner runs a function inside a database transaction. *db.Connection
// satisfies it; tests substitute a fake.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(pgx.Tx) error) error
}

// UnitOfWork tracks entity changes until Save commits them atomically
// through the change interceptor. Each logical operation must use its own
// instance; a UnitOfWork is not safe for concurrent use.
type UnitOfWork struct {
	runner      TxRunner
	interceptor *audit.Interceptor
	changes     []audit.Change
}

// Factory produces a fresh unit of work per logical operation.
type Factory func() *UnitOfWork

// New creates an empty unit of work.
func New(runner TxRunner, interceptor *audit.Interceptor) *UnitOfWork {
	return &UnitOfWork{runner: runner, interceptor: interceptor}
}

// RegisterNew tracks a brand-new entity for insertion. Storage assigns its
// identity and creation time at save.
func (u *UnitOfWork) RegisterNew(e domain.Auditable) {
	u.changes = append(u.changes, audit.Change{Kind: audit.ChangeInsert, Entity: e})
}

// RegisterDirty tracks a modified entity. The entity's current row version
// is captured as the caller's expectation; a mismatch against the persisted
// version at save time aborts the commit.
func (u *UnitOfWork) RegisterDirty(e domain.Auditable) {
	u.changes = append(u.changes, audit.Change{
		Kind:            audit.ChangeUpdate,
		Entity:          e,
		ExpectedVersion: e.EntityVersion(),
	})
}

// RegisterRemoved tracks an entity for deletion. The entity must carry its
// pre-change values; those are what the DELETE audit row snapshots.
func (u *UnitOfWork) RegisterRemoved(e domain.Auditable) {
	u.changes = append(u.changes, audit.Change{
		Kind:            audit.ChangeDelete,
		Entity:          e,
		ExpectedVersion: e.EntityVersion(),
	})
}

// Pending returns the number of tracked changes.
func (u *UnitOfWork) Pending() int { return len(u.changes) }

// Save commits every tracked change and its audit row in one transaction.
// On failure nothing is persisted and the change set is kept so the caller
// can inspect or retry; on success the change set is cleared.
func (u *UnitOfWork) Save(ctx context.Context) error {
	if len(u.changes) == 0 {
		return nil
	}
	err := u.runner.WithTx(ctx, func(tx pgx.Tx) error {
		return u.interceptor.Apply(ctx, tx, u.changes)
	})
	if err != nil {
		return err
	}
	u.changes = u.changes[:0]
	return nil
}
