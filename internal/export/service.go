// Package export renders audit trails as spreadsheet downloads so auditors
// can work with change history outside the API.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"orgaudit/internal/domain"
	"orgaudit/internal/service"
)

// Service renders audit trails into XLSX workbooks.
type Service struct {
	companies   *service.CompanyService
	departments *service.DepartmentService
	employees   *service.EmployeeService
}

// NewService creates a new export service.
func NewService(
	companies *service.CompanyService,
	departments *service.DepartmentService,
	employees *service.EmployeeService,
) *Service {
	return &Service{
		companies:   companies,
		departments: departments,
		employees:   employees,
	}
}

// AuditWorkbook builds an XLSX workbook holding the audit trail of one
// entity. The caller owns the returned file and must Close it.
func (s *Service) AuditWorkbook(ctx context.Context, kind string, id int64) (*excelize.File, error) {
	switch kind {
	case domain.KindCompany:
		trail, err := s.companies.AuditTrail(ctx, id)
		if err != nil {
			return nil, err
		}
		return buildWorkbook("Company Audit",
			[]string{"Audit ID", "Company ID", "Operation", "Row Version", "Created Date", "User", "Name", "Address", "City", "Established On"},
			len(trail), func(i int) []any {
				a := trail[i]
				return []any{a.AuditID, a.CompanyID, string(a.Operation), a.RowVersion, formatTime(&a.CreatedDate), textOrEmpty(a.LoggedUserName), a.Name, a.Address, a.City, formatTime(a.EstablishedOn)}
			})
	case domain.KindDepartment:
		trail, err := s.departments.AuditTrail(ctx, id)
		if err != nil {
			return nil, err
		}
		return buildWorkbook("Department Audit",
			[]string{"Audit ID", "Department ID", "Operation", "Row Version", "Created Date", "User", "Name", "Cost Center"},
			len(trail), func(i int) []any {
				a := trail[i]
				return []any{a.AuditID, a.DepartmentID, string(a.Operation), a.RowVersion, formatTime(&a.CreatedDate), textOrEmpty(a.LoggedUserName), a.Name, a.CostCenter}
			})
	case domain.KindEmployee:
		trail, err := s.employees.AuditTrail(ctx, id)
		if err != nil {
			return nil, err
		}
		return buildWorkbook("Employee Audit",
			[]string{"Audit ID", "Employee ID", "Operation", "Row Version", "Created Date", "User", "Name", "Email", "Hired On", "Company ID", "Department ID"},
			len(trail), func(i int) []any {
				a := trail[i]
				return []any{a.AuditID, a.EmployeeID, string(a.Operation), a.RowVersion, formatTime(&a.CreatedDate), textOrEmpty(a.LoggedUserName), a.Name, a.Email, formatTime(a.HiredOn), a.CompanyID, int64OrEmpty(a.DepartmentID)}
			})
	default:
		return nil, fmt.Errorf("%w: unknown entity kind %q", domain.ErrValidation, kind)
	}
}

// SnapshotWorkbook builds an XLSX workbook holding the reconstructed state
// of every entity of one kind at the asOf cut-off.
func (s *Service) SnapshotWorkbook(ctx context.Context, kind string, asOf time.Time) (*excelize.File, error) {
	switch kind {
	case domain.KindCompany:
		records, err := s.companies.SnapshotAll(ctx, asOf)
		if err != nil {
			return nil, err
		}
		return buildWorkbook("Company Snapshot",
			[]string{"Company ID", "Row Version", "As Of Audit ID", "Name", "Address", "City", "Established On"},
			len(records), func(i int) []any {
				a := records[i]
				return []any{a.CompanyID, a.RowVersion, a.AuditID, a.Name, a.Address, a.City, formatTime(a.EstablishedOn)}
			})
	case domain.KindDepartment:
		records, err := s.departments.SnapshotAll(ctx, asOf)
		if err != nil {
			return nil, err
		}
		return buildWorkbook("Department Snapshot",
			[]string{"Department ID", "Row Version", "As Of Audit ID", "Name", "Cost Center"},
			len(records), func(i int) []any {
				a := records[i]
				return []any{a.DepartmentID, a.RowVersion, a.AuditID, a.Name, a.CostCenter}
			})
	case domain.KindEmployee:
		records, err := s.employees.SnapshotAll(ctx, asOf)
		if err != nil {
			return nil, err
		}
		return buildWorkbook("Employee Snapshot",
			[]string{"Employee ID", "Row Version", "As Of Audit ID", "Name", "Email", "Hired On", "Company ID", "Department ID"},
			len(records), func(i int) []any {
				a := records[i]
				return []any{a.EmployeeID, a.RowVersion, a.AuditID, a.Name, a.Email, formatTime(a.HiredOn), a.CompanyID, int64OrEmpty(a.DepartmentID)}
			})
	default:
		return nil, fmt.Errorf("%w: unknown entity kind %q", domain.ErrValidation, kind)
	}
}

func buildWorkbook(sheet string, headers []string, rows int, row func(int) []any) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for i := 0; i < rows; i++ {
		for col, value := range row(i) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("write row: %w", err)
			}
		}
	}
	return f, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func textOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func int64OrEmpty(v *int64) any {
	if v == nil {
		return ""
	}
	return *v
}
