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

// employeeBinding adapts employees and employee_audits to the change
// interceptor.
type employeeBinding struct{}

// NewEmployeeBinding creates the audit binding for employees.
func NewEmployeeBinding() audit.Binding {
	return employeeBinding{}
}

func (employeeBinding) Kind() string { return domain.KindEmployee }

func (employeeBinding) Insert(ctx context.Context, tx pgx.Tx, e domain.Auditable) error {
	employee, err := asEmployee(e)
	if err != nil {
		return err
	}

	var (
		id        int64
		createdOn pgtype.Timestamptz
	)
	err = tx.QueryRow(ctx,
		`INSERT INTO employees (name, email, hired_on, company_id, department_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_on`,
		employee.Name, employee.Email, timestamptz(employee.HiredOn),
		employee.CompanyID, int8Value(employee.DepartmentID),
	).Scan(&id, &createdOn)
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", translateConstraint(err))
	}

	employee.StampPersistence(id, 1, nullableTime(createdOn))
	return nil
}

func (employeeBinding) Authoritative(ctx context.Context, tx pgx.Tx, id int64) (int64, *time.Time, error) {
	var (
		rowVersion int64
		createdOn  pgtype.Timestamptz
	)
	err := tx.QueryRow(ctx,
		`SELECT row_version, created_on FROM employees WHERE id = $1 FOR UPDATE`, id,
	).Scan(&rowVersion, &createdOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil, fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
		}
		return 0, nil, fmt.Errorf("failed to read authoritative employee version: %w", err)
	}
	return rowVersion, nullableTime(createdOn), nil
}

func (employeeBinding) Update(ctx context.Context, tx pgx.Tx, e domain.Auditable, rowVersion int64) error {
	employee, err := asEmployee(e)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE employees
		 SET name = $1, email = $2, hired_on = $3, company_id = $4, department_id = $5, row_version = $6
		 WHERE id = $7`,
		employee.Name, employee.Email, timestamptz(employee.HiredOn),
		employee.CompanyID, int8Value(employee.DepartmentID),
		rowVersion, employee.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", translateConstraint(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee %d: %w", employee.ID, domain.ErrNotFound)
	}
	return nil
}

func (employeeBinding) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", translateConstraint(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (employeeBinding) AppendAudit(ctx context.Context, tx pgx.Tx, e domain.Auditable, op domain.AuditOperation, rowVersion int64, stamp audit.Stamp) error {
	employee, err := asEmployee(e)
	if err != nil {
		return err
	}

	record := domain.NewEmployeeAudit(*employee)
	record.Operation = op
	record.RowVersion = rowVersion
	record.CreatedDate = stamp.CreatedDate
	record.LoggedUserName = stamp.LoggedUserName

	_, err = tx.Exec(ctx,
		`INSERT INTO employee_audits
		 (employee_id, row_version, created_date, created_on, operation, logged_user_name, name, email, hired_on, company_id, department_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		record.EmployeeID, record.RowVersion, record.CreatedDate, timestamptz(record.CreatedOn),
		string(record.Operation), textValue(record.LoggedUserName),
		record.Name, record.Email, timestamptz(record.HiredOn),
		record.CompanyID, int8Value(record.DepartmentID),
	)
	if err != nil {
		return fmt.Errorf("failed to append employee audit row: %w", err)
	}
	return nil
}

func asEmployee(e domain.Auditable) (*domain.Employee, error) {
	employee, ok := e.(*domain.Employee)
	if !ok {
		return nil, fmt.Errorf("employee binding received %T", e)
	}
	return employee, nil
}
