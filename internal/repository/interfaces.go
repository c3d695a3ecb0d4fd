package repository

import (
	"context"
	"time"

	"orgaudit/internal/domain"
)

// CompanyRepository defines the read-side interface for company operations.
// Writes go through the unit of work and the company audit binding.
type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Company, error)
	GetByName(ctx context.Context, name string) (domain.Company, error)
	List(ctx context.Context, limit int, offset int) ([]domain.Company, error)
}

// DepartmentRepository defines the read-side interface for department operations.
type DepartmentRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Department, error)
	GetByName(ctx context.Context, name string) (domain.Department, error)
	List(ctx context.Context, limit int, offset int) ([]domain.Department, error)
}

// EmployeeRepository defines the read-side interface for employee operations.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Employee, error)
	GetByName(ctx context.Context, name string) (domain.Employee, error)
	List(ctx context.Context, limit int, offset int) ([]domain.Employee, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.Employee, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Employee, error)
}

// CompanyAuditRepository is the read-only query engine over the append-only
// company audit log. No operation has write side effects.
type CompanyAuditRepository interface {
	// ListByCompany returns every audit row for the entity id, unordered;
	// callers sort as needed.
	ListByCompany(ctx context.Context, companyID int64) ([]domain.CompanyAudit, error)
	// GetByAuditID looks a single row up by the audit table's own key.
	GetByAuditID(ctx context.Context, auditID int64) (domain.CompanyAudit, error)
	// SnapshotAll reconstructs the last known state of every company at or
	// before asOf; companies deleted by then are excluded.
	SnapshotAll(ctx context.Context, asOf time.Time) ([]domain.CompanyAudit, error)
	// SnapshotByID reconstructs one company's state at or before asOf.
	// Returns nil when the company had no audit activity by then or was
	// already deleted.
	SnapshotByID(ctx context.Context, asOf time.Time, companyID int64) (*domain.CompanyAudit, error)
}

// DepartmentAuditRepository is the read-only query engine over the
// department audit log.
type DepartmentAuditRepository interface {
	ListByDepartment(ctx context.Context, departmentID int64) ([]domain.DepartmentAudit, error)
	GetByAuditID(ctx context.Context, auditID int64) (domain.DepartmentAudit, error)
	SnapshotAll(ctx context.Context, asOf time.Time) ([]domain.DepartmentAudit, error)
	SnapshotByID(ctx context.Context, asOf time.Time, departmentID int64) (*domain.DepartmentAudit, error)
}

// EmployeeAuditRepository is the read-only query engine over the employee
// audit log.
type EmployeeAuditRepository interface {
	ListByEmployee(ctx context.Context, employeeID int64) ([]domain.EmployeeAudit, error)
	GetByAuditID(ctx context.Context, auditID int64) (domain.EmployeeAudit, error)
	SnapshotAll(ctx context.Context, asOf time.Time) ([]domain.EmployeeAudit, error)
	SnapshotByID(ctx context.Context, asOf time.Time, employeeID int64) (*domain.EmployeeAudit, error)
}
