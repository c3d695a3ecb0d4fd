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

// companyBinding adapts companies and company_audits to the change
// interceptor. Registered once at startup under domain.KindCompany.
type companyBinding struct{}

// NewCompanyBinding creates the audit binding for companies.
func NewCompanyBinding() audit.Binding {
	return companyBinding{}
}

func (companyBinding) Kind() string { return domain.KindCompany }

func (companyBinding) Insert(ctx context.Context, tx pgx.Tx, e domain.Auditable) error {
	company, err := asCompany(e)
	if err != nil {
		return err
	}

	var (
		id        int64
		createdOn pgtype.Timestamptz
	)
	err = tx.QueryRow(ctx,
		`INSERT INTO companies (name, address, city, established_on)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_on`,
		company.Name, company.Address, company.City, timestamptz(company.EstablishedOn),
	).Scan(&id, &createdOn)
	if err != nil {
		return fmt.Errorf("failed to insert company: %w", translateConstraint(err))
	}

	company.StampPersistence(id, 1, nullableTime(createdOn))
	return nil
}

func (companyBinding) Authoritative(ctx context.Context, tx pgx.Tx, id int64) (int64, *time.Time, error) {
	var (
		rowVersion int64
		createdOn  pgtype.Timestamptz
	)
	err := tx.QueryRow(ctx,
		`SELECT row_version, created_on FROM companies WHERE id = $1 FOR UPDATE`, id,
	).Scan(&rowVersion, &createdOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil, fmt.Errorf("company %d: %w", id, domain.ErrNotFound)
		}
		return 0, nil, fmt.Errorf("failed to read authoritative company version: %w", err)
	}
	return rowVersion, nullableTime(createdOn), nil
}

func (companyBinding) Update(ctx context.Context, tx pgx.Tx, e domain.Auditable, rowVersion int64) error {
	company, err := asCompany(e)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE companies
		 SET name = $1, address = $2, city = $3, established_on = $4, row_version = $5
		 WHERE id = $6`,
		company.Name, company.Address, company.City, timestamptz(company.EstablishedOn),
		rowVersion, company.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", translateConstraint(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("company %d: %w", company.ID, domain.ErrNotFound)
	}
	return nil
}

func (companyBinding) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", translateConstraint(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("company %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (companyBinding) AppendAudit(ctx context.Context, tx pgx.Tx, e domain.Auditable, op domain.AuditOperation, rowVersion int64, stamp audit.Stamp) error {
	company, err := asCompany(e)
	if err != nil {
		return err
	}

	record := domain.NewCompanyAudit(*company)
	record.Operation = op
	record.RowVersion = rowVersion
	record.CreatedDate = stamp.CreatedDate
	record.LoggedUserName = stamp.LoggedUserName

	_, err = tx.Exec(ctx,
		`INSERT INTO company_audits
		 (company_id, row_version, created_date, created_on, operation, logged_user_name, name, address, city, established_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		record.CompanyID, record.RowVersion, record.CreatedDate, timestamptz(record.CreatedOn),
		string(record.Operation), textValue(record.LoggedUserName),
		record.Name, record.Address, record.City, timestamptz(record.EstablishedOn),
	)
	if err != nil {
		return fmt.Errorf("failed to append company audit row: %w", err)
	}
	return nil
}

func asCompany(e domain.Auditable) (*domain.Company, error) {
	company, ok := e.(*domain.Company)
	if !ok {
		return nil, fmt.Errorf("company binding received %T", e)
	}
	return company, nil
}
