package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"orgaudit/internal/domain"
)

const employeeColumns = `id, row_version, created_on, name, email, hired_on, company_id, department_id`

// employeeRepository implements EmployeeRepository
type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

// GetByID retrieves an employee by ID
func (r *employeeRepository) GetByID(ctx context.Context, id int64) (domain.Employee, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)

	employee, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Employee{}, fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
		}
		return domain.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

// GetByName retrieves an employee by their unique name
func (r *employeeRepository) GetByName(ctx context.Context, name string) (domain.Employee, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE name = $1`, name)

	employee, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Employee{}, fmt.Errorf("employee %q: %w", name, domain.ErrNotFound)
		}
		return domain.Employee{}, fmt.Errorf("failed to get employee by name: %w", err)
	}
	return employee, nil
}

// List retrieves employees ordered by id
func (r *employeeRepository) List(ctx context.Context, limit int, offset int) ([]domain.Employee, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// ListByCompany retrieves the employees referencing a company
func (r *employeeRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by company: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// ListByDepartment retrieves the employees referencing a department
func (r *employeeRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE department_id = $1 ORDER BY id`, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by department: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func collectEmployees(rows pgx.Rows) ([]domain.Employee, error) {
	employees := []domain.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

func scanEmployee(row scanner) (domain.Employee, error) {
	var (
		employee     domain.Employee
		createdOn    pgtype.Timestamptz
		hiredOn      pgtype.Timestamptz
		departmentID pgtype.Int8
	)
	if err := row.Scan(
		&employee.ID,
		&employee.RowVersion,
		&createdOn,
		&employee.Name,
		&employee.Email,
		&hiredOn,
		&employee.CompanyID,
		&departmentID,
	); err != nil {
		return domain.Employee{}, err
	}
	employee.CreatedOn = nullableTime(createdOn)
	employee.HiredOn = nullableTime(hiredOn)
	employee.DepartmentID = nullableInt8(departmentID)
	return employee, nil
}
