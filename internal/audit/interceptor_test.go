package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"orgaudit/internal/domain"
)

type appendedAudit struct {
	op         domain.AuditOperation
	rowVersion int64
	stamp      Stamp
}

// fakeBinding records the persistence calls the interceptor makes so tests
// can assert on ordering and the stamped values without a database.
type fakeBinding struct {
	kind       string
	version    int64
	createdOn  *time.Time
	authErr    error
	calls      []string
	audits     []appendedAudit
	nextID     int64
	updateWith int64
}

func (b *fakeBinding) Kind() string { return b.kind }

func (b *fakeBinding) Insert(ctx context.Context, tx pgx.Tx, e domain.Auditable) error {
	b.calls = append(b.calls, "insert")
	e.StampPersistence(b.nextID, 1, b.createdOn)
	return nil
}

func (b *fakeBinding) Authoritative(ctx context.Context, tx pgx.Tx, id int64) (int64, *time.Time, error) {
	b.calls = append(b.calls, "authoritative")
	if b.authErr != nil {
		return 0, nil, b.authErr
	}
	return b.version, b.createdOn, nil
}

func (b *fakeBinding) Update(ctx context.Context, tx pgx.Tx, e domain.Auditable, rowVersion int64) error {
	b.calls = append(b.calls, "update")
	b.updateWith = rowVersion
	return nil
}

func (b *fakeBinding) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	b.calls = append(b.calls, "delete")
	return nil
}

func (b *fakeBinding) AppendAudit(ctx context.Context, tx pgx.Tx, e domain.Auditable, op domain.AuditOperation, rowVersion int64, stamp Stamp) error {
	b.calls = append(b.calls, "append")
	b.audits = append(b.audits, appendedAudit{op: op, rowVersion: rowVersion, stamp: stamp})
	return nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type staticPrincipal struct {
	name *string
	err  error
}

func (p staticPrincipal) UserName(ctx context.Context) (*string, error) { return p.name, p.err }

func newTestInterceptor(b Binding, clock Clock, principal Principal) *Interceptor {
	registry := NewRegistry()
	registry.Register(b)
	registry.Freeze()
	return NewInterceptor(registry, clock, principal)
}

func strptr(s string) *string { return &s }

func TestApplyInsertStampsAndMirrors(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	createdOn := now.Add(-time.Second)
	binding := &fakeBinding{kind: domain.KindCompany, nextID: 101, createdOn: &createdOn}
	interceptor := newTestInterceptor(binding, fixedClock{at: now}, staticPrincipal{name: strptr("alice")})

	company := &domain.Company{Name: "Fresh"}
	err := interceptor.Apply(context.Background(), nil, []Change{{Kind: ChangeInsert, Entity: company}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"insert", "append"}; fmt.Sprint(binding.calls) != fmt.Sprint(want) {
		t.Errorf("expected calls %v, got %v", want, binding.calls)
	}
	if company.ID != 101 || company.RowVersion != 1 {
		t.Errorf("entity not stamped: id=%d version=%d", company.ID, company.RowVersion)
	}
	a := binding.audits[0]
	if a.op != domain.OpInsert || a.rowVersion != 1 {
		t.Errorf("expected INSERT v1 audit, got %s v%d", a.op, a.rowVersion)
	}
	if !a.stamp.CreatedDate.Equal(now) {
		t.Errorf("expected created date %v, got %v", now, a.stamp.CreatedDate)
	}
	if a.stamp.LoggedUserName == nil || *a.stamp.LoggedUserName != "alice" {
		t.Errorf("expected user alice, got %v", a.stamp.LoggedUserName)
	}
}

func TestApplyUpdateUsesAuthoritativeVersion(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	createdOn := now.Add(-time.Hour)
	binding := &fakeBinding{kind: domain.KindCompany, version: 3, createdOn: &createdOn}
	interceptor := newTestInterceptor(binding, fixedClock{at: now}, staticPrincipal{})

	company := &domain.Company{ID: 42, RowVersion: 3, Name: "Renamed"}
	change := Change{Kind: ChangeUpdate, Entity: company, ExpectedVersion: 3}
	if err := interceptor.Apply(context.Background(), nil, []Change{change}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"authoritative", "update", "append"}; fmt.Sprint(binding.calls) != fmt.Sprint(want) {
		t.Errorf("expected calls %v, got %v", want, binding.calls)
	}
	if binding.updateWith != 4 {
		t.Errorf("expected update to write version 4, got %d", binding.updateWith)
	}
	if company.RowVersion != 4 {
		t.Errorf("entity not corrected to authoritative version: %d", company.RowVersion)
	}
	a := binding.audits[0]
	if a.op != domain.OpUpdate || a.rowVersion != 4 {
		t.Errorf("expected UPDATE v4 audit, got %s v%d", a.op, a.rowVersion)
	}
	if a.stamp.LoggedUserName != nil {
		t.Errorf("anonymous change must carry a nil user, got %v", a.stamp.LoggedUserName)
	}
}

func TestApplyUpdateVersionConflictAborts(t *testing.T) {
	binding := &fakeBinding{kind: domain.KindCompany, version: 5}
	interceptor := newTestInterceptor(binding, fixedClock{at: time.Now()}, staticPrincipal{})

	company := &domain.Company{ID: 42, RowVersion: 3}
	change := Change{Kind: ChangeUpdate, Entity: company, ExpectedVersion: 3}
	err := interceptor.Apply(context.Background(), nil, []Change{change})
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	if want := []string{"authoritative"}; fmt.Sprint(binding.calls) != fmt.Sprint(want) {
		t.Errorf("conflict must stop before writing, calls: %v", binding.calls)
	}
}

func TestApplyDeleteAuditsBeforeRemoval(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	binding := &fakeBinding{kind: domain.KindCompany, version: 5}
	interceptor := newTestInterceptor(binding, fixedClock{at: now}, staticPrincipal{})

	company := &domain.Company{ID: 42, RowVersion: 5, Name: "Doomed"}
	change := Change{Kind: ChangeDelete, Entity: company, ExpectedVersion: 5}
	if err := interceptor.Apply(context.Background(), nil, []Change{change}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"authoritative", "append", "delete"}; fmt.Sprint(binding.calls) != fmt.Sprint(want) {
		t.Errorf("expected calls %v, got %v", want, binding.calls)
	}
	// The DELETE audit row keeps the last known version, no increment.
	a := binding.audits[0]
	if a.op != domain.OpDelete || a.rowVersion != 5 {
		t.Errorf("expected DELETE v5 audit, got %s v%d", a.op, a.rowVersion)
	}
}

func TestApplyFailsClosedOnPrincipalError(t *testing.T) {
	binding := &fakeBinding{kind: domain.KindCompany}
	interceptor := newTestInterceptor(binding, fixedClock{at: time.Now()}, staticPrincipal{err: errors.New("directory down")})

	company := &domain.Company{Name: "Fresh"}
	err := interceptor.Apply(context.Background(), nil, []Change{{Kind: ChangeInsert, Entity: company}})
	if err == nil {
		t.Fatal("expected error when the acting user cannot be resolved")
	}
	if len(binding.calls) != 0 {
		t.Errorf("no persistence call may happen without provenance, calls: %v", binding.calls)
	}
}

func TestApplyUnregisteredKind(t *testing.T) {
	binding := &fakeBinding{kind: domain.KindCompany}
	interceptor := newTestInterceptor(binding, fixedClock{at: time.Now()}, staticPrincipal{})

	department := &domain.Department{Name: "Orphan"}
	err := interceptor.Apply(context.Background(), nil, []Change{{Kind: ChangeInsert, Entity: department}})
	if err == nil {
		t.Fatal("expected error for an entity kind without a binding")
	}
}
