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

const companyColumns = `id, row_version, created_on, name, address, city, established_on`

// companyRepository implements CompanyRepository
type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

// GetByID retrieves a company by ID
func (r *companyRepository) GetByID(ctx context.Context, id int64) (domain.Company, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)

	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Company{}, fmt.Errorf("company %d: %w", id, domain.ErrNotFound)
		}
		return domain.Company{}, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// GetByName retrieves a company by its unique name
func (r *companyRepository) GetByName(ctx context.Context, name string) (domain.Company, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE name = $1`, name)

	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Company{}, fmt.Errorf("company %q: %w", name, domain.ErrNotFound)
		}
		return domain.Company{}, fmt.Errorf("failed to get company by name: %w", err)
	}
	return company, nil
}

// List retrieves companies ordered by id
func (r *companyRepository) List(ctx context.Context, limit int, offset int) ([]domain.Company, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate companies: %w", err)
	}

	return companies, nil
}

func scanCompany(row scanner) (domain.Company, error) {
	var (
		company       domain.Company
		createdOn     pgtype.Timestamptz
		establishedOn pgtype.Timestamptz
	)
	if err := row.Scan(
		&company.ID,
		&company.RowVersion,
		&createdOn,
		&company.Name,
		&company.Address,
		&company.City,
		&establishedOn,
	); err != nil {
		return domain.Company{}, err
	}
	company.CreatedOn = nullableTime(createdOn)
	company.EstablishedOn = nullableTime(establishedOn)
	return company, nil
}
