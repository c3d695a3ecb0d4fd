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

const departmentColumns = `id, row_version, created_on, name, cost_center`

// departmentRepository implements DepartmentRepository
type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

// GetByID retrieves a department by ID
func (r *departmentRepository) GetByID(ctx context.Context, id int64) (domain.Department, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE id = $1`, id)

	department, err := scanDepartment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Department{}, fmt.Errorf("department %d: %w", id, domain.ErrNotFound)
		}
		return domain.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return department, nil
}

// GetByName retrieves a department by its unique name
func (r *departmentRepository) GetByName(ctx context.Context, name string) (domain.Department, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE name = $1`, name)

	department, err := scanDepartment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Department{}, fmt.Errorf("department %q: %w", name, domain.ErrNotFound)
		}
		return domain.Department{}, fmt.Errorf("failed to get department by name: %w", err)
	}
	return department, nil
}

// List retrieves departments ordered by id
func (r *departmentRepository) List(ctx context.Context, limit int, offset int) ([]domain.Department, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+departmentColumns+` FROM departments ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	departments := []domain.Department{}
	for rows.Next() {
		department, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, department)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate departments: %w", err)
	}

	return departments, nil
}

func scanDepartment(row scanner) (domain.Department, error) {
	var (
		department domain.Department
		createdOn  pgtype.Timestamptz
	)
	if err := row.Scan(
		&department.ID,
		&department.RowVersion,
		&createdOn,
		&department.Name,
		&department.CostCenter,
	); err != nil {
		return domain.Department{}, err
	}
	department.CreatedOn = nullableTime(createdOn)
	return department, nil
}
