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

const employeeAuditColumns = `audit_id, employee_id, row_version, created_date, created_on, operation, logged_user_name, name, email, hired_on, company_id, department_id`

// employeeAuditRepository implements EmployeeAuditRepository.
type employeeAuditRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeAuditRepository creates a new employee audit repository
func NewEmployeeAuditRepository(pool *pgxpool.Pool) EmployeeAuditRepository {
	return &employeeAuditRepository{pool: pool}
}

func (r *employeeAuditRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]domain.EmployeeAudit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeAuditColumns+` FROM employee_audits WHERE employee_id = $1`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee audit rows: %w", err)
	}
	defer rows.Close()

	return collectEmployeeAudits(rows)
}

func (r *employeeAuditRepository) GetByAuditID(ctx context.Context, auditID int64) (domain.EmployeeAudit, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeAuditColumns+` FROM employee_audits WHERE audit_id = $1`, auditID)

	record, err := scanEmployeeAudit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EmployeeAudit{}, fmt.Errorf("employee audit %d: %w", auditID, domain.ErrNotFound)
		}
		return domain.EmployeeAudit{}, fmt.Errorf("failed to get employee audit row: %w", err)
	}
	return record, nil
}

func (r *employeeAuditRepository) SnapshotAll(ctx context.Context, asOf time.Time) ([]domain.EmployeeAudit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeAuditColumns+` FROM employee_audits WHERE created_date <= $1`, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee audit rows for snapshot: %w", err)
	}
	defer rows.Close()

	records, err := collectEmployeeAudits(rows)
	if err != nil {
		return nil, err
	}
	return audit.LatestPerEntity(records), nil
}

func (r *employeeAuditRepository) SnapshotByID(ctx context.Context, asOf time.Time, employeeID int64) (*domain.EmployeeAudit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeAuditColumns+` FROM employee_audits WHERE employee_id = $1 AND created_date <= $2`,
		employeeID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee audit rows for snapshot: %w", err)
	}
	defer rows.Close()

	records, err := collectEmployeeAudits(rows)
	if err != nil {
		return nil, err
	}
	record, ok := audit.LatestRow(records)
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func collectEmployeeAudits(rows pgx.Rows) ([]domain.EmployeeAudit, error) {
	records := []domain.EmployeeAudit{}
	for rows.Next() {
		record, err := scanEmployeeAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee audit row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee audit rows: %w", err)
	}
	return records, nil
}

func scanEmployeeAudit(row scanner) (domain.EmployeeAudit, error) {
	var (
		record       domain.EmployeeAudit
		createdOn    pgtype.Timestamptz
		hiredOn      pgtype.Timestamptz
		operation    string
		userName     pgtype.Text
		departmentID pgtype.Int8
	)
	if err := row.Scan(
		&record.AuditID,
		&record.EmployeeID,
		&record.RowVersion,
		&record.CreatedDate,
		&createdOn,
		&operation,
		&userName,
		&record.Name,
		&record.Email,
		&hiredOn,
		&record.CompanyID,
		&departmentID,
	); err != nil {
		return domain.EmployeeAudit{}, err
	}

	op, err := domain.ParseAuditOperation(operation)
	if err != nil {
		return domain.EmployeeAudit{}, err
	}
	record.Operation = op
	record.CreatedOn = nullableTime(createdOn)
	record.HiredOn = nullableTime(hiredOn)
	record.LoggedUserName = nullableText(userName)
	record.DepartmentID = nullableInt8(departmentID)
	return record, nil
}
