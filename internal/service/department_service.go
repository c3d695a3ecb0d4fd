package service

import (
	"context"
	"fmt"
	"time"

	"orgaudit/internal/domain"
	"orgaudit/internal/repository"
	"orgaudit/internal/uow"
)

// DepartmentService implements department CRUD, audit queries and restore.
type DepartmentService struct {
	departments repository.DepartmentRepository
	audits      repository.DepartmentAuditRepository
	employees   repository.EmployeeRepository
	units       uow.Factory
}

// NewDepartmentService creates a new department service
func NewDepartmentService(
	departments repository.DepartmentRepository,
	audits repository.DepartmentAuditRepository,
	employees repository.EmployeeRepository,
	units uow.Factory,
) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		audits:      audits,
		employees:   employees,
		units:       units,
	}
}

func (s *DepartmentService) Get(ctx context.Context, id int64) (domain.Department, error) {
	return s.departments.GetByID(ctx, id)
}

func (s *DepartmentService) List(ctx context.Context, limit int, offset int) ([]domain.Department, error) {
	return s.departments.List(ctx, limit, offset)
}

// Employees lists the non-owning back-reference from a department to its employees.
func (s *DepartmentService) Employees(ctx context.Context, departmentID int64) ([]domain.Employee, error) {
	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.employees.ListByDepartment(ctx, departmentID)
}

func (s *DepartmentService) Create(ctx context.Context, department domain.Department) (domain.Department, error) {
	if department.Name == "" {
		return domain.Department{}, fmt.Errorf("%w: department name is required", domain.ErrValidation)
	}

	unit := s.units()
	unit.RegisterNew(&department)
	if err := unit.Save(ctx); err != nil {
		return domain.Department{}, err
	}
	return department, nil
}

func (s *DepartmentService) Update(ctx context.Context, in domain.Department) (domain.Department, error) {
	if in.Name == "" {
		return domain.Department{}, fmt.Errorf("%w: department name is required", domain.ErrValidation)
	}

	department, err := s.departments.GetByID(ctx, in.ID)
	if err != nil {
		return domain.Department{}, err
	}

	department.Name = in.Name
	department.CostCenter = in.CostCenter
	department.RowVersion = in.RowVersion

	unit := s.units()
	unit.RegisterDirty(&department)
	if err := unit.Save(ctx); err != nil {
		return domain.Department{}, err
	}
	return department, nil
}

func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	department, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	unit := s.units()
	unit.RegisterRemoved(&department)
	return unit.Save(ctx)
}

func (s *DepartmentService) AuditTrail(ctx context.Context, departmentID int64) ([]domain.DepartmentAudit, error) {
	return s.audits.ListByDepartment(ctx, departmentID)
}

func (s *DepartmentService) AuditByID(ctx context.Context, auditID int64) (domain.DepartmentAudit, error) {
	return s.audits.GetByAuditID(ctx, auditID)
}

func (s *DepartmentService) SnapshotAll(ctx context.Context, asOf time.Time) ([]domain.DepartmentAudit, error) {
	return s.audits.SnapshotAll(ctx, asOf)
}

func (s *DepartmentService) SnapshotByID(ctx context.Context, asOf time.Time, departmentID int64) (*domain.DepartmentAudit, error) {
	return s.audits.SnapshotByID(ctx, asOf, departmentID)
}

// Restore applies a historical audit row's business fields, either to the
// live department or, with departmentID 0, to a brand-new one.
func (s *DepartmentService) Restore(ctx context.Context, departmentID int64, auditID int64) (domain.Department, error) {
	record, err := s.audits.GetByAuditID(ctx, auditID)
	if err != nil {
		return domain.Department{}, err
	}

	if departmentID == 0 {
		var department domain.Department
		record.RestoreTo(&department)

		unit := s.units()
		unit.RegisterNew(&department)
		if err := unit.Save(ctx); err != nil {
			return domain.Department{}, err
		}
		return department, nil
	}

	if record.DepartmentID != departmentID {
		return domain.Department{}, fmt.Errorf("%w: audit %d belongs to department %d, not %d",
			domain.ErrAuditEntityMismatch, auditID, record.DepartmentID, departmentID)
	}

	department, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		return domain.Department{}, err
	}
	record.RestoreTo(&department)

	unit := s.units()
	unit.RegisterDirty(&department)
	if err := unit.Save(ctx); err != nil {
		return domain.Department{}, err
	}
	return department, nil
}
