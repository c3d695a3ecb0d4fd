// Package service holds the business operations on top of the repositories
// and the unit of work. Each mutating call builds a fresh unit of work so
// the change set and its audit rows commit atomically per request.
package service

import (
	"context"
	"fmt"
	"time"

	"orgaudit/internal/domain"
	"orgaudit/internal/repository"
	"orgaudit/internal/uow"
)

// CompanyService implements company CRUD, audit queries and restore.
type CompanyService struct {
	companies repository.CompanyRepository
	audits    repository.CompanyAuditRepository
	employees repository.EmployeeRepository
	units     uow.Factory
}

// NewCompanyService creates a new company service
func NewCompanyService(
	companies repository.CompanyRepository,
	audits repository.CompanyAuditRepository,
	employees repository.EmployeeRepository,
	units uow.Factory,
) *CompanyService {
	return &CompanyService{
		companies: companies,
		audits:    audits,
		employees: employees,
		units:     units,
	}
}

func (s *CompanyService) Get(ctx context.Context, id int64) (domain.Company, error) {
	return s.companies.GetByID(ctx, id)
}

func (s *CompanyService) List(ctx context.Context, limit int, offset int) ([]domain.Company, error) {
	return s.companies.List(ctx, limit, offset)
}

// Employees lists the non-owning back-reference from a company to its employees.
func (s *CompanyService) Employees(ctx context.Context, companyID int64) ([]domain.Employee, error) {
	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.employees.ListByCompany(ctx, companyID)
}

// Create persists a new company. Storage assigns identity and creation time;
// the save emits the INSERT audit row.
func (s *CompanyService) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	if company.Name == "" {
		return domain.Company{}, fmt.Errorf("%w: company name is required", domain.ErrValidation)
	}

	unit := s.units()
	unit.RegisterNew(&company)
	if err := unit.Save(ctx); err != nil {
		return domain.Company{}, err
	}
	return company, nil
}

// Update applies the caller's business fields to the stored company. The
// caller's RowVersion is the optimistic concurrency expectation; a mismatch
// against the persisted version aborts the save.
func (s *CompanyService) Update(ctx context.Context, in domain.Company) (domain.Company, error) {
	if in.Name == "" {
		return domain.Company{}, fmt.Errorf("%w: company name is required", domain.ErrValidation)
	}

	company, err := s.companies.GetByID(ctx, in.ID)
	if err != nil {
		return domain.Company{}, err
	}

	company.Name = in.Name
	company.Address = in.Address
	company.City = in.City
	company.EstablishedOn = in.EstablishedOn
	company.RowVersion = in.RowVersion

	unit := s.units()
	unit.RegisterDirty(&company)
	if err := unit.Save(ctx); err != nil {
		return domain.Company{}, err
	}
	return company, nil
}

// Delete removes the company. The DELETE audit row snapshots the values as
// they existed immediately before removal.
func (s *CompanyService) Delete(ctx context.Context, id int64) error {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return err
	}

	unit := s.units()
	unit.RegisterRemoved(&company)
	return unit.Save(ctx)
}

func (s *CompanyService) AuditTrail(ctx context.Context, companyID int64) ([]domain.CompanyAudit, error) {
	return s.audits.ListByCompany(ctx, companyID)
}

func (s *CompanyService) AuditByID(ctx context.Context, auditID int64) (domain.CompanyAudit, error) {
	return s.audits.GetByAuditID(ctx, auditID)
}

func (s *CompanyService) SnapshotAll(ctx context.Context, asOf time.Time) ([]domain.CompanyAudit, error) {
	return s.audits.SnapshotAll(ctx, asOf)
}

func (s *CompanyService) SnapshotByID(ctx context.Context, asOf time.Time, companyID int64) (*domain.CompanyAudit, error) {
	return s.audits.SnapshotByID(ctx, asOf, companyID)
}

// Restore copies the business fields of a historical audit row back onto a
// live company and saves, producing a fresh UPDATE audit row. With
// companyID 0 the row is applied to a brand-new company instead, which takes
// the INSERT path and receives a new identity.
func (s *CompanyService) Restore(ctx context.Context, companyID int64, auditID int64) (domain.Company, error) {
	record, err := s.audits.GetByAuditID(ctx, auditID)
	if err != nil {
		return domain.Company{}, err
	}

	if companyID == 0 {
		var company domain.Company
		record.RestoreTo(&company)

		unit := s.units()
		unit.RegisterNew(&company)
		if err := unit.Save(ctx); err != nil {
			return domain.Company{}, err
		}
		return company, nil
	}

	if record.CompanyID != companyID {
		return domain.Company{}, fmt.Errorf("%w: audit %d belongs to company %d, not %d",
			domain.ErrAuditEntityMismatch, auditID, record.CompanyID, companyID)
	}

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return domain.Company{}, err
	}
	record.RestoreTo(&company)

	unit := s.units()
	unit.RegisterDirty(&company)
	if err := unit.Save(ctx); err != nil {
		return domain.Company{}, err
	}
	return company, nil
}
