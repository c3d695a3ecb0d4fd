package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgaudit/internal/audit"
	"orgaudit/internal/domain"
	"orgaudit/internal/uow"
)

type stubCompanyRepo struct {
	companies map[int64]domain.Company
}

func (r *stubCompanyRepo) GetByID(ctx context.Context, id int64) (domain.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return domain.Company{}, fmt.Errorf("company %d: %w", id, domain.ErrNotFound)
	}
	return company, nil
}

func (r *stubCompanyRepo) GetByName(ctx context.Context, name string) (domain.Company, error) {
	for _, company := range r.companies {
		if company.Name == name {
			return company, nil
		}
	}
	return domain.Company{}, fmt.Errorf("company %q: %w", name, domain.ErrNotFound)
}

func (r *stubCompanyRepo) List(ctx context.Context, limit int, offset int) ([]domain.Company, error) {
	result := make([]domain.Company, 0, len(r.companies))
	for _, company := range r.companies {
		result = append(result, company)
	}
	return result, nil
}

type stubEmployeeRepo struct {
	byCompany map[int64][]domain.Employee
}

func (r *stubEmployeeRepo) GetByID(ctx context.Context, id int64) (domain.Employee, error) {
	return domain.Employee{}, fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
}

func (r *stubEmployeeRepo) GetByName(ctx context.Context, name string) (domain.Employee, error) {
	return domain.Employee{}, fmt.Errorf("employee %q: %w", name, domain.ErrNotFound)
}

func (r *stubEmployeeRepo) List(ctx context.Context, limit int, offset int) ([]domain.Employee, error) {
	return nil, nil
}

func (r *stubEmployeeRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.Employee, error) {
	return r.byCompany[companyID], nil
}

func (r *stubEmployeeRepo) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Employee, error) {
	return nil, nil
}

type stubCompanyAuditRepo struct {
	byAuditID map[int64]domain.CompanyAudit
	byCompany map[int64][]domain.CompanyAudit
}

func (r *stubCompanyAuditRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.CompanyAudit, error) {
	return r.byCompany[companyID], nil
}

func (r *stubCompanyAuditRepo) GetByAuditID(ctx context.Context, auditID int64) (domain.CompanyAudit, error) {
	record, ok := r.byAuditID[auditID]
	if !ok {
		return domain.CompanyAudit{}, fmt.Errorf("audit %d: %w", auditID, domain.ErrNotFound)
	}
	return record, nil
}

func (r *stubCompanyAuditRepo) SnapshotAll(ctx context.Context, asOf time.Time) ([]domain.CompanyAudit, error) {
	var rows []domain.CompanyAudit
	for _, trail := range r.byCompany {
		for _, row := range trail {
			if !row.CreatedDate.After(asOf) {
				rows = append(rows, row)
			}
		}
	}
	return audit.LatestPerEntity(rows), nil
}

func (r *stubCompanyAuditRepo) SnapshotByID(ctx context.Context, asOf time.Time, companyID int64) (*domain.CompanyAudit, error) {
	var rows []domain.CompanyAudit
	for _, row := range r.byCompany[companyID] {
		if !row.CreatedDate.After(asOf) {
			rows = append(rows, row)
		}
	}
	best, ok := audit.LatestRow(rows)
	if !ok {
		return nil, nil
	}
	return &best, nil
}

type passthroughRunner struct{}

func (passthroughRunner) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

// memoryCompanyBinding emulates the companies table and its audit mirror so
// save paths run without a database.
type memoryCompanyBinding struct {
	nextID   int64
	versions map[int64]int64
	audits   []domain.AuditOperation
}

func newMemoryCompanyBinding() *memoryCompanyBinding {
	return &memoryCompanyBinding{nextID: 1, versions: make(map[int64]int64)}
}

func (b *memoryCompanyBinding) Kind() string { return domain.KindCompany }

func (b *memoryCompanyBinding) Insert(ctx context.Context, tx pgx.Tx, e domain.Auditable) error {
	id := b.nextID
	b.nextID++
	b.versions[id] = 1
	now := time.Now().UTC()
	e.StampPersistence(id, 1, &now)
	return nil
}

func (b *memoryCompanyBinding) Authoritative(ctx context.Context, tx pgx.Tx, id int64) (int64, *time.Time, error) {
	version, ok := b.versions[id]
	if !ok {
		return 0, nil, domain.ErrNotFound
	}
	return version, nil, nil
}

func (b *memoryCompanyBinding) Update(ctx context.Context, tx pgx.Tx, e domain.Auditable, rowVersion int64) error {
	b.versions[e.EntityID()] = rowVersion
	return nil
}

func (b *memoryCompanyBinding) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	delete(b.versions, id)
	return nil
}

func (b *memoryCompanyBinding) AppendAudit(ctx context.Context, tx pgx.Tx, e domain.Auditable, op domain.AuditOperation, rowVersion int64, stamp audit.Stamp) error {
	b.audits = append(b.audits, op)
	return nil
}

func newCompanyFixture(binding audit.Binding) uow.Factory {
	registry := audit.NewRegistry()
	registry.Register(binding)
	registry.Freeze()
	interceptor := audit.NewInterceptor(registry, audit.SystemClock{}, audit.ContextPrincipal{})
	return func() *uow.UnitOfWork {
		return uow.New(passthroughRunner{}, interceptor)
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewCompanyService(
		&stubCompanyRepo{companies: map[int64]domain.Company{}},
		&stubCompanyAuditRepo{},
		&stubEmployeeRepo{},
		newCompanyFixture(newMemoryCompanyBinding()),
	)

	_, err := svc.Create(context.Background(), domain.Company{})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateAssignsIdentityAndAudits(t *testing.T) {
	binding := newMemoryCompanyBinding()
	svc := NewCompanyService(
		&stubCompanyRepo{companies: map[int64]domain.Company{}},
		&stubCompanyAuditRepo{},
		&stubEmployeeRepo{},
		newCompanyFixture(binding),
	)

	created, err := svc.Create(context.Background(), domain.Company{Name: "Initech"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(1), created.RowVersion)
	assert.NotNil(t, created.CreatedOn)
	assert.Equal(t, []domain.AuditOperation{domain.OpInsert}, binding.audits)
}

func TestUpdateStaleVersionConflicts(t *testing.T) {
	binding := newMemoryCompanyBinding()
	binding.versions[42] = 2
	repo := &stubCompanyRepo{companies: map[int64]domain.Company{
		42: {ID: 42, RowVersion: 2, Name: "Current"},
	}}
	svc := NewCompanyService(repo, &stubCompanyAuditRepo{}, &stubEmployeeRepo{}, newCompanyFixture(binding))

	_, err := svc.Update(context.Background(), domain.Company{ID: 42, RowVersion: 1, Name: "Stale"})
	require.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.Empty(t, binding.audits, "a conflicted save must leave no audit row")
}

func TestUpdateBumpsVersion(t *testing.T) {
	binding := newMemoryCompanyBinding()
	binding.versions[42] = 2
	repo := &stubCompanyRepo{companies: map[int64]domain.Company{
		42: {ID: 42, RowVersion: 2, Name: "Current"},
	}}
	svc := NewCompanyService(repo, &stubCompanyAuditRepo{}, &stubEmployeeRepo{}, newCompanyFixture(binding))

	updated, err := svc.Update(context.Background(), domain.Company{ID: 42, RowVersion: 2, Name: "Renamed"})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, int64(3), updated.RowVersion)
	assert.Equal(t, []domain.AuditOperation{domain.OpUpdate}, binding.audits)
}

func TestRestoreRejectsForeignAuditRow(t *testing.T) {
	audits := &stubCompanyAuditRepo{byAuditID: map[int64]domain.CompanyAudit{
		7: {AuditID: 7, CompanyID: 42, Name: "Old"},
	}}
	svc := NewCompanyService(
		&stubCompanyRepo{companies: map[int64]domain.Company{}},
		audits,
		&stubEmployeeRepo{},
		newCompanyFixture(newMemoryCompanyBinding()),
	)

	_, err := svc.Restore(context.Background(), 43, 7)
	require.ErrorIs(t, err, domain.ErrAuditEntityMismatch)
}

func TestRestoreAppliesHistoricalFields(t *testing.T) {
	binding := newMemoryCompanyBinding()
	binding.versions[42] = 4
	repo := &stubCompanyRepo{companies: map[int64]domain.Company{
		42: {ID: 42, RowVersion: 4, Name: "Current", City: "Berlin"},
	}}
	audits := &stubCompanyAuditRepo{byAuditID: map[int64]domain.CompanyAudit{
		7: {AuditID: 7, CompanyID: 42, RowVersion: 2, Operation: domain.OpUpdate, Name: "Old", City: "Munich"},
	}}
	svc := NewCompanyService(repo, audits, &stubEmployeeRepo{}, newCompanyFixture(binding))

	restored, err := svc.Restore(context.Background(), 42, 7)
	require.NoError(t, err)

	assert.Equal(t, "Old", restored.Name)
	assert.Equal(t, "Munich", restored.City)
	// Restoring is a normal update: a fresh version, not the historical one.
	assert.Equal(t, int64(5), restored.RowVersion)
	assert.Equal(t, []domain.AuditOperation{domain.OpUpdate}, binding.audits)
}

func TestRestoreToNewCompany(t *testing.T) {
	binding := newMemoryCompanyBinding()
	audits := &stubCompanyAuditRepo{byAuditID: map[int64]domain.CompanyAudit{
		7: {AuditID: 7, CompanyID: 42, RowVersion: 2, Operation: domain.OpDelete, Name: "Phoenix", City: "Munich"},
	}}
	svc := NewCompanyService(
		&stubCompanyRepo{companies: map[int64]domain.Company{}},
		audits,
		&stubEmployeeRepo{},
		newCompanyFixture(binding),
	)

	restored, err := svc.Restore(context.Background(), 0, 7)
	require.NoError(t, err)

	// A brand-new identity, not the one the audit row came from.
	assert.Equal(t, int64(1), restored.ID)
	assert.Equal(t, int64(1), restored.RowVersion)
	assert.Equal(t, "Phoenix", restored.Name)
	assert.Equal(t, []domain.AuditOperation{domain.OpInsert}, binding.audits)
}

func TestEmployeesRequiresExistingCompany(t *testing.T) {
	employees := &stubEmployeeRepo{byCompany: map[int64][]domain.Employee{
		42: {{ID: 1, Name: "Alice", CompanyID: 42}},
	}}
	svc := NewCompanyService(
		&stubCompanyRepo{companies: map[int64]domain.Company{
			42: {ID: 42, Name: "Initech"},
		}},
		&stubCompanyAuditRepo{},
		employees,
		newCompanyFixture(newMemoryCompanyBinding()),
	)

	listed, err := svc.Employees(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = svc.Employees(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotByIDThroughService(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	audits := &stubCompanyAuditRepo{byCompany: map[int64][]domain.CompanyAudit{
		42: {
			{AuditID: 1, CompanyID: 42, CreatedDate: base, Operation: domain.OpInsert, Name: "v1"},
			{AuditID: 2, CompanyID: 42, CreatedDate: base.Add(time.Hour), Operation: domain.OpUpdate, Name: "v2"},
		},
	}}
	svc := NewCompanyService(
		&stubCompanyRepo{companies: map[int64]domain.Company{}},
		audits,
		&stubEmployeeRepo{},
		newCompanyFixture(newMemoryCompanyBinding()),
	)

	// Cut-off between the two rows sees only the first.
	record, err := svc.SnapshotByID(context.Background(), base.Add(time.Minute), 42)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "v1", record.Name)

	// A cut-off exactly on a row's timestamp includes it.
	record, err = svc.SnapshotByID(context.Background(), base.Add(time.Hour), 42)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "v2", record.Name)

	// Before any activity there is no state.
	record, err = svc.SnapshotByID(context.Background(), base.Add(-time.Minute), 42)
	require.NoError(t, err)
	assert.Nil(t, record)
}
