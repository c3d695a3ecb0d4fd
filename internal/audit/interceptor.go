package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"orgaudit/internal/domain"
)

// Interceptor applies a unit of work's tracked changes inside a single
// transaction, emitting exactly one audit row per change. Row versions are
// derived from the authoritative persisted value read under lock, never from
// the in-memory candidate, so a forged client version can never be written.
type Interceptor struct {
	registry  *Registry
	clock     Clock
	principal Principal
}

// NewInterceptor wires the interceptor with its providers.
func NewInterceptor(registry *Registry, clock Clock, principal Principal) *Interceptor {
	return &Interceptor{registry: registry, clock: clock, principal: principal}
}

// Apply executes every tracked change and its audit emission on the given
// transaction. Any error aborts the surrounding commit, leaving neither the
// entity change nor the audit row behind. Provenance resolution failures are
// fail-closed: no audit row is ever written with missing provenance.
func (i *Interceptor) Apply(ctx context.Context, tx pgx.Tx, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}

	user, err := i.principal.UserName(ctx)
	if err != nil {
		return fmt.Errorf("resolve acting user: %w", err)
	}
	stamp := Stamp{CreatedDate: i.clock.Now(), LoggedUserName: user}

	for _, change := range changes {
		binding, err := i.registry.Binding(change.Entity.EntityKind())
		if err != nil {
			return err
		}
		if err := i.applyOne(ctx, tx, binding, change, stamp); err != nil {
			return fmt.Errorf("%s %s: %w", change.Kind, change.Entity.EntityKind(), err)
		}
	}

	return nil
}

func (i *Interceptor) applyOne(ctx context.Context, tx pgx.Tx, binding Binding, change Change, stamp Stamp) error {
	entity := change.Entity

	switch change.Kind {
	case ChangeInsert:
		// Insert stamps the entity with its storage-assigned id, version 1
		// and creation time before the mirror row is written.
		if err := binding.Insert(ctx, tx, entity); err != nil {
			return err
		}
		return binding.AppendAudit(ctx, tx, entity, domain.OpInsert, 1, stamp)

	case ChangeUpdate:
		current, createdOn, err := binding.Authoritative(ctx, tx, entity.EntityID())
		if err != nil {
			return err
		}
		if change.ExpectedVersion != current {
			return fmt.Errorf("%w: id %d expected version %d, persisted %d",
				domain.ErrVersionConflict, entity.EntityID(), change.ExpectedVersion, current)
		}
		next := current + 1
		if err := binding.Update(ctx, tx, entity, next); err != nil {
			return err
		}
		// Correct the in-flight entity to the authoritative values so the
		// caller never observes a stale or forged version after save.
		entity.StampPersistence(entity.EntityID(), next, createdOn)
		return binding.AppendAudit(ctx, tx, entity, domain.OpUpdate, next, stamp)

	case ChangeDelete:
		current, createdOn, err := binding.Authoritative(ctx, tx, entity.EntityID())
		if err != nil {
			return err
		}
		// DELETE rows carry the last known version, not an increment.
		entity.StampPersistence(entity.EntityID(), current, createdOn)
		if err := binding.AppendAudit(ctx, tx, entity, domain.OpDelete, current, stamp); err != nil {
			return err
		}
		return binding.Delete(ctx, tx, entity.EntityID())

	default:
		return fmt.Errorf("unsupported change kind %d", change.Kind)
	}
}
