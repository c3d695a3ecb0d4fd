package uow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgaudit/internal/audit"
	"orgaudit/internal/domain"
)

type fakeRunner struct {
	calls int
	err   error
}

func (r *fakeRunner) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	return fn(nil)
}

// memoryBinding keeps company rows in a map so unit of work saves can be
// exercised end to end without a database.
type memoryBinding struct {
	nextID   int64
	versions map[int64]int64
	audits   []domain.AuditOperation
}

func newMemoryBinding() *memoryBinding {
	return &memoryBinding{nextID: 1, versions: make(map[int64]int64)}
}

func (b *memoryBinding) Kind() string { return domain.KindCompany }

func (b *memoryBinding) Insert(ctx context.Context, tx pgx.Tx, e domain.Auditable) error {
	id := b.nextID
	b.nextID++
	b.versions[id] = 1
	now := time.Now().UTC()
	e.StampPersistence(id, 1, &now)
	return nil
}

func (b *memoryBinding) Authoritative(ctx context.Context, tx pgx.Tx, id int64) (int64, *time.Time, error) {
	version, ok := b.versions[id]
	if !ok {
		return 0, nil, domain.ErrNotFound
	}
	return version, nil, nil
}

func (b *memoryBinding) Update(ctx context.Context, tx pgx.Tx, e domain.Auditable, rowVersion int64) error {
	b.versions[e.EntityID()] = rowVersion
	return nil
}

func (b *memoryBinding) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	delete(b.versions, id)
	return nil
}

func (b *memoryBinding) AppendAudit(ctx context.Context, tx pgx.Tx, e domain.Auditable, op domain.AuditOperation, rowVersion int64, stamp audit.Stamp) error {
	b.audits = append(b.audits, op)
	return nil
}

func newTestUnit(runner TxRunner, binding audit.Binding) *UnitOfWork {
	registry := audit.NewRegistry()
	registry.Register(binding)
	registry.Freeze()
	interceptor := audit.NewInterceptor(registry, audit.SystemClock{}, audit.ContextPrincipal{})
	return New(runner, interceptor)
}

func TestSaveCommitsTrackedChanges(t *testing.T) {
	runner := &fakeRunner{}
	binding := newMemoryBinding()
	unit := newTestUnit(runner, binding)

	company := &domain.Company{Name: "Fresh"}
	unit.RegisterNew(company)
	require.Equal(t, 1, unit.Pending())

	require.NoError(t, unit.Save(context.Background()))

	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, 0, unit.Pending(), "change set must clear after a successful save")
	assert.Equal(t, int64(1), company.ID)
	assert.Equal(t, int64(1), company.RowVersion)
	assert.Equal(t, []domain.AuditOperation{domain.OpInsert}, binding.audits)
}

func TestSaveWithNoChangesSkipsTransaction(t *testing.T) {
	runner := &fakeRunner{}
	unit := newTestUnit(runner, newMemoryBinding())

	require.NoError(t, unit.Save(context.Background()))
	assert.Equal(t, 0, runner.calls)
}

func TestSaveKeepsChangesOnFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("connection lost")}
	unit := newTestUnit(runner, newMemoryBinding())

	unit.RegisterNew(&domain.Company{Name: "Fresh"})
	err := unit.Save(context.Background())

	require.Error(t, err)
	assert.Equal(t, 1, unit.Pending(), "failed save must keep the change set")
}

func TestRegisterDirtyCapturesVersionExpectation(t *testing.T) {
	runner := &fakeRunner{}
	binding := newMemoryBinding()
	unit := newTestUnit(runner, binding)

	company := &domain.Company{Name: "Fresh"}
	unit.RegisterNew(company)
	require.NoError(t, unit.Save(context.Background()))

	// A concurrent writer bumps the persisted version behind our back.
	binding.versions[company.ID] = 2

	unit = newTestUnit(runner, binding)
	company.Name = "Renamed"
	unit.RegisterDirty(company)
	err := unit.Save(context.Background())

	require.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestDeleteEmitsAuditThenRemoves(t *testing.T) {
	runner := &fakeRunner{}
	binding := newMemoryBinding()
	unit := newTestUnit(runner, binding)

	company := &domain.Company{Name: "Doomed"}
	unit.RegisterNew(company)
	require.NoError(t, unit.Save(context.Background()))

	unit = newTestUnit(runner, binding)
	unit.RegisterRemoved(company)
	require.NoError(t, unit.Save(context.Background()))

	assert.Equal(t, []domain.AuditOperation{domain.OpInsert, domain.OpDelete}, binding.audits)
	_, _, err := binding.Authoritative(context.Background(), nil, company.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
