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

const companyAuditColumns = `audit_id, company_id, row_version, created_date, created_on, operation, logged_user_name, name, address, city, established_on`

// companyAuditRepository implements CompanyAuditRepository. All queries run
// without locks against the append-only company_audits table; the snapshot
// reduction itself happens in the audit package so it stays storage-agnostic.
type companyAuditRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyAuditRepository creates a new company audit repository
func NewCompanyAuditRepository(pool *pgxpool.Pool) CompanyAuditRepository {
	return &companyAuditRepository{pool: pool}
}

func (r *companyAuditRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.CompanyAudit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+companyAuditColumns+` FROM company_audits WHERE company_id = $1`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company audit rows: %w", err)
	}
	defer rows.Close()

	return collectCompanyAudits(rows)
}

func (r *companyAuditRepository) GetByAuditID(ctx context.Context, auditID int64) (domain.CompanyAudit, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+companyAuditColumns+` FROM company_audits WHERE audit_id = $1`, auditID)

	record, err := scanCompanyAudit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CompanyAudit{}, fmt.Errorf("company audit %d: %w", auditID, domain.ErrNotFound)
		}
		return domain.CompanyAudit{}, fmt.Errorf("failed to get company audit row: %w", err)
	}
	return record, nil
}

func (r *companyAuditRepository) SnapshotAll(ctx context.Context, asOf time.Time) ([]domain.CompanyAudit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+companyAuditColumns+` FROM company_audits WHERE created_date <= $1`, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load company audit rows for snapshot: %w", err)
	}
	defer rows.Close()

	records, err := collectCompanyAudits(rows)
	if err != nil {
		return nil, err
	}
	return audit.LatestPerEntity(records), nil
}

func (r *companyAuditRepository) SnapshotByID(ctx context.Context, asOf time.Time, companyID int64) (*domain.CompanyAudit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+companyAuditColumns+` FROM company_audits WHERE company_id = $1 AND created_date <= $2`,
		companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load company audit rows for snapshot: %w", err)
	}
	defer rows.Close()

	records, err := collectCompanyAudits(rows)
	if err != nil {
		return nil, err
	}
	record, ok := audit.LatestRow(records)
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func collectCompanyAudits(rows pgx.Rows) ([]domain.CompanyAudit, error) {
	records := []domain.CompanyAudit{}
	for rows.Next() {
		record, err := scanCompanyAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company audit row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate company audit rows: %w", err)
	}
	return records, nil
}

func scanCompanyAudit(row scanner) (domain.CompanyAudit, error) {
	var (
		record        domain.CompanyAudit
		createdOn     pgtype.Timestamptz
		establishedOn pgtype.Timestamptz
		operation     string
		userName      pgtype.Text
	)
	if err := row.Scan(
		&record.AuditID,
		&record.CompanyID,
		&record.RowVersion,
		&record.CreatedDate,
		&createdOn,
		&operation,
		&userName,
		&record.Name,
		&record.Address,
		&record.City,
		&establishedOn,
	); err != nil {
		return domain.CompanyAudit{}, err
	}

	op, err := domain.ParseAuditOperation(operation)
	if err != nil {
		return domain.CompanyAudit{}, err
	}
	record.Operation = op
	record.CreatedOn = nullableTime(createdOn)
	record.EstablishedOn = nullableTime(establishedOn)
	record.LoggedUserName = nullableText(userName)
	return record, nil
}
