package audit

import (
	"sort"
	"time"

	"orgaudit/internal/domain"
)

// Row is the view of an audit record the snapshot reduction needs. All three
// audit types implement it.
type Row interface {
	RowEntityID() int64
	RowAuditID() int64
	RowCreatedDate() time.Time
	RowOperation() domain.AuditOperation
}

// LatestPerEntity reduces a set of audit rows (already filtered to
// CreatedDate <= asOf by the caller) to the last known state of every entity:
// rows are grouped by entity id and the row with the greatest CreatedDate
// wins, ties resolved by AuditID so the last written row is deterministic.
// Entities whose surviving row is a DELETE were gone at the cut-off and are
// excluded. The result is ordered by entity id.
func LatestPerEntity[R Row](rows []R) []R {
	latest := make(map[int64]R, len(rows))
	for _, row := range rows {
		best, ok := latest[row.RowEntityID()]
		if !ok || after(row, best) {
			latest[row.RowEntityID()] = row
		}
	}

	result := make([]R, 0, len(latest))
	for _, row := range latest {
		if row.RowOperation() == domain.OpDelete {
			continue
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RowEntityID() < result[j].RowEntityID()
	})
	return result
}

// LatestRow reduces one entity's audit rows (already filtered to
// CreatedDate <= asOf) to its last known state. Returns false when the
// entity had no audit activity by the cut-off or was deleted by then.
func LatestRow[R Row](rows []R) (R, bool) {
	var best R
	found := false
	for _, row := range rows {
		if !found || after(row, best) {
			best = row
			found = true
		}
	}
	if !found || best.RowOperation() == domain.OpDelete {
		var zero R
		return zero, false
	}
	return best, true
}

func after(a, b Row) bool {
	if !a.RowCreatedDate().Equal(b.RowCreatedDate()) {
		return a.RowCreatedDate().After(b.RowCreatedDate())
	}
	return a.RowAuditID() > b.RowAuditID()
}
