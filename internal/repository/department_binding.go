package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"orgaudit/internal/audit"
	"orgaudit/internal/domain"
)

// departmentBinding adapts departments and department_audits to the change
// interceptor.
type departmentBinding struct{}

// NewDepartmentBinding creates the audit binding for departments.
func NewDepartmentBinding() audit.Binding {
	return departmentBinding{}
}

func (departmentBinding) Kind() string { return domain.KindDepartment }

func (departmentBinding) Insert(ctx context.Context, tx pgx.Tx, e domain.Auditable) error {
	department, err := asDepartment(e)
	if err != nil {
		return err
	}

	var (
		id        int64
		createdOn pgtype.Timestamptz
	)
	err = tx.QueryRow(ctx,
		`INSERT INTO departments (name, cost_center)
		 VALUES ($1, $2)
		 RETURNING id, created_on`,
		department.Name, department.CostCenter,
	).Scan(&id, &createdOn)
	if err != nil {
		return fmt.Errorf("failed to insert department: %w", translateConstraint(err))
	}

	department.StampPersistence(id, 1, nullableTime(createdOn))
	return nil
}

func (departmentBinding) Authoritative(ctx context.Context, tx pgx.Tx, id int64) (int64, *time.Time, error) {
	var (
		rowVersion int64
		createdOn  pgtype.Timestamptz
	)
	err := tx.QueryRow(ctx,
		`SELECT row_version, created_on FROM departments WHERE id = $1 FOR UPDATE`, id,
	).Scan(&rowVersion, &createdOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil, fmt.Errorf("department %d: %w", id, domain.ErrNotFound)
		}
		return 0, nil, fmt.Errorf("failed to read authoritative department version: %w", err)
	}
	return rowVersion, nullableTime(createdOn), nil
}

func (departmentBinding) Update(ctx context.Context, tx pgx.Tx, e domain.Auditable, rowVersion int64) error {
	department, err := asDepartment(e)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE departments
		 SET name = $1, cost_center = $2, row_version = $3
		 WHERE id = $4`,
		department.Name, department.CostCenter, rowVersion, department.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", translateConstraint(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("department %d: %w", department.ID, domain.ErrNotFound)
	}
	return nil
}

func (departmentBinding) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", translateConstraint(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("department %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (departmentBinding) AppendAudit(ctx context.Context, tx pgx.Tx, e domain.Auditable, op domain.AuditOperation, rowVersion int64, stamp audit.Stamp) error {
	department, err := asDepartment(e)
	if err != nil {
		return err
	}

	record := domain.NewDepartmentAudit(*department)
	record.Operation = op
	record.RowVersion = rowVersion
	record.CreatedDate = stamp.CreatedDate
	record.LoggedUserName = stamp.LoggedUserName

	_, err = tx.Exec(ctx,
		`INSERT INTO department_audits
		 (department_id, row_version, created_date, created_on, operation, logged_user_name, name, cost_center)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.DepartmentID, record.RowVersion, record.CreatedDate, timestamptz(record.CreatedOn),
		string(record.Operation), textValue(record.LoggedUserName),
		record.Name, record.CostCenter,
	)
	if err != nil {
		return fmt.Errorf("failed to append department audit row: %w", err)
	}
	return nil
}

func asDepartment(e domain.Auditable) (*domain.Department, error) {
	department, ok := e.(*domain.Department)
	if !ok {
		return nil, fmt.Errorf("department binding received %T", e)
	}
	return department, nil
}
