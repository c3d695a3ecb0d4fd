package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"orgaudit/internal/audit"
	"orgaudit/internal/domain"
)

const departmentAuditColumns = `audit_id, department_id, row_version, created_date, created_on, operation, logged_user_name, name, cost_center`

// departmentAuditRepository implements DepartmentAuditRepository.
type departmentAuditRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentAuditRepository creates a new department audit repository
func NewDepartmentAuditRepository(pool *pgxpool.Pool) DepartmentAuditRepository {
	return &departmentAuditRepository{pool: pool}
}

func (r *departmentAuditRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.DepartmentAudit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+departmentAuditColumns+` FROM department_audits WHERE department_id = $1`, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department audit rows: %w", err)
	}
	defer rows.Close()

	return collectDepartmentAudits(rows)
}

func (r *departmentAuditRepository) GetByAuditID(ctx context.Context, auditID int64) (domain.DepartmentAudit, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+departmentAuditColumns+` FROM department_audits WHERE audit_id = $1`, auditID)

	record, err := scanDepartmentAudit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DepartmentAudit{}, fmt.Errorf("department audit %d: %w", auditID, domain.ErrNotFound)
		}
		return domain.DepartmentAudit{}, fmt.Errorf("failed to get department audit row: %w", err)
	}
	return record, nil
}

func (r *departmentAuditRepository) SnapshotAll(ctx context.Context, asOf time.Time) ([]domain.DepartmentAudit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+departmentAuditColumns+` FROM department_audits WHERE created_date <= $1`, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load department audit rows for snapshot: %w", err)
	}
	defer rows.Close()

	records, err := collectDepartmentAudits(rows)
	if err != nil {
		return nil, err
	}
	return audit.LatestPerEntity(records), nil
}

func (r *departmentAuditRepository) SnapshotByID(ctx context.Context, asOf time.Time, departmentID int64) (*domain.DepartmentAudit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+departmentAuditColumns+` FROM department_audits WHERE department_id = $1 AND created_date <= $2`,
		departmentID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load department audit rows for snapshot: %w", err)
	}
	defer rows.Close()

	records, err := collectDepartmentAudits(rows)
	if err != nil {
		return nil, err
	}
	record, ok := audit.LatestRow(records)
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func collectDepartmentAudits(rows pgx.Rows) ([]domain.DepartmentAudit, error) {
	records := []domain.DepartmentAudit{}
	for rows.Next() {
		record, err := scanDepartmentAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department audit row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate department audit rows: %w", err)
	}
	return records, nil
}

func scanDepartmentAudit(row scanner) (domain.DepartmentAudit, error) {
	var (
		record    domain.DepartmentAudit
		createdOn pgtype.Timestamptz
		operation string
		userName  pgtype.Text
	)
	if err := row.Scan(
		&record.AuditID,
		&record.DepartmentID,
		&record.RowVersion,
		&record.CreatedDate,
		&createdOn,
		&operation,
		&userName,
		&record.Name,
		&record.CostCenter,
	); err != nil {
		return domain.DepartmentAudit{}, err
	}

	op, err := domain.ParseAuditOperation(operation)
	if err != nil {
		return domain.DepartmentAudit{}, err
	}
	record.Operation = op
	record.CreatedOn = nullableTime(createdOn)
	record.LoggedUserName = nullableText(userName)
	return record, nil
}
