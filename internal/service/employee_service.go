package service

import (
	"context"
	"fmt"
	"time"

	"orgaudit/internal/domain"
	"orgaudit/internal/repository"
	"orgaudit/internal/uow"
)

// EmployeeService implements employee CRUD, audit queries and restore.
type EmployeeService struct {
	employees repository.EmployeeRepository
	audits    repository.EmployeeAuditRepository
	units     uow.Factory
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	employees repository.EmployeeRepository,
	audits repository.EmployeeAuditRepository,
	units uow.Factory,
) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		audits:    audits,
		units:     units,
	}
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (domain.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context, limit int, offset int) ([]domain.Employee, error) {
	return s.employees.List(ctx, limit, offset)
}

func (s *EmployeeService) Create(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	if err := validateEmployee(employee); err != nil {
		return domain.Employee{}, err
	}

	unit := s.units()
	unit.RegisterNew(&employee)
	if err := unit.Save(ctx); err != nil {
		return domain.Employee{}, err
	}
	return employee, nil
}

func (s *EmployeeService) Update(ctx context.Context, in domain.Employee) (domain.Employee, error) {
	if err := validateEmployee(in); err != nil {
		return domain.Employee{}, err
	}

	employee, err := s.employees.GetByID(ctx, in.ID)
	if err != nil {
		return domain.Employee{}, err
	}

	employee.Name = in.Name
	employee.Email = in.Email
	employee.HiredOn = in.HiredOn
	employee.CompanyID = in.CompanyID
	employee.DepartmentID = in.DepartmentID
	employee.RowVersion = in.RowVersion

	unit := s.units()
	unit.RegisterDirty(&employee)
	if err := unit.Save(ctx); err != nil {
		return domain.Employee{}, err
	}
	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return err
	}

	unit := s.units()
	unit.RegisterRemoved(&employee)
	return unit.Save(ctx)
}

func (s *EmployeeService) AuditTrail(ctx context.Context, employeeID int64) ([]domain.EmployeeAudit, error) {
	return s.audits.ListByEmployee(ctx, employeeID)
}

func (s *EmployeeService) AuditByID(ctx context.Context, auditID int64) (domain.EmployeeAudit, error) {
	return s.audits.GetByAuditID(ctx, auditID)
}

func (s *EmployeeService) SnapshotAll(ctx context.Context, asOf time.Time) ([]domain.EmployeeAudit, error) {
	return s.audits.SnapshotAll(ctx, asOf)
}

func (s *EmployeeService) SnapshotByID(ctx context.Context, asOf time.Time, employeeID int64) (*domain.EmployeeAudit, error) {
	return s.audits.SnapshotByID(ctx, asOf, employeeID)
}

// Restore applies a historical audit row's business fields, either to the
// live employee or, with employeeID 0, to a brand-new one. The restored
// company and department references are validated by the foreign keys at
// save time.
func (s *EmployeeService) Restore(ctx context.Context, employeeID int64, auditID int64) (domain.Employee, error) {
	record, err := s.audits.GetByAuditID(ctx, auditID)
	if err != nil {
		return domain.Employee{}, err
	}

	if employeeID == 0 {
		var employee domain.Employee
		record.RestoreTo(&employee)

		unit := s.units()
		unit.RegisterNew(&employee)
		if err := unit.Save(ctx); err != nil {
			return domain.Employee{}, err
		}
		return employee, nil
	}

	if record.EmployeeID != employeeID {
		return domain.Employee{}, fmt.Errorf("%w: audit %d belongs to employee %d, not %d",
			domain.ErrAuditEntityMismatch, auditID, record.EmployeeID, employeeID)
	}

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return domain.Employee{}, err
	}
	record.RestoreTo(&employee)

	unit := s.units()
	unit.RegisterDirty(&employee)
	if err := unit.Save(ctx); err != nil {
		return domain.Employee{}, err
	}
	return employee, nil
}

func validateEmployee(employee domain.Employee) error {
	if employee.Name == "" {
		return fmt.Errorf("%w: employee name is required", domain.ErrValidation)
	}
	if employee.CompanyID == 0 {
		return fmt.Errorf("%w: employee company is required", domain.ErrValidation)
	}
	return nil
}
