package domain

import "time"

// Employee is a versioned business entity. CompanyID is required,
// DepartmentID is optional.
type Employee struct {
	ID           int64      `json:"id"`
	RowVersion   int64      `json:"rowVersion"`
	CreatedOn    *time.Time `json:"createdOn,omitempty"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	HiredOn      *time.Time `json:"hiredOn,omitempty"`
	CompanyID    int64      `json:"companyId"`
	DepartmentID *int64     `json:"departmentId,omitempty"`
}

func (e *Employee) EntityKind() string { return KindEmployee }
func (e *Employee) EntityID() int64 { return e.ID }
func (e *Employee) EntityVersion() int64 { return e.RowVersion }

func (e *Employee) StampPersistence(id int64, rowVersion int64, createdOn *time.Time) {
	e.ID = id
	e.RowVersion = rowVersion
	e.CreatedOn = createdOn
}

// EmployeeAudit is the append-only mirror of one change to an Employee.
type EmployeeAudit struct {
	AuditID        int64          `json:"auditId"`
	EmployeeID     int64          `json:"employeeId"`
	RowVersion     int64          `json:"rowVersion"`
	CreatedDate    time.Time      `json:"createdDate"`
	CreatedOn      *time.Time     `json:"createdOn,omitempty"`
	Operation      AuditOperation `json:"operation"`
	LoggedUserName *string        `json:"loggedUserName,omitempty"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	HiredOn        *time.Time     `json:"hiredOn,omitempty"`
	CompanyID      int64          `json:"companyId"`
	DepartmentID   *int64         `json:"departmentId,omitempty"`
}

// NewEmployeeAudit copies the employee's business fields into a fresh audit row.
func NewEmployeeAudit(e Employee) EmployeeAudit {
	return EmployeeAudit{
		EmployeeID:   e.ID,
		CreatedOn:    e.CreatedOn,
		Name:         e.Name,
		Email:        e.Email,
		HiredOn:      e.HiredOn,
		CompanyID:    e.CompanyID,
		DepartmentID: e.DepartmentID,
	}
}

// RestoreTo copies the audited business fields back onto a live employee.
func (a EmployeeAudit) RestoreTo(e *Employee) {
	e.Name = a.Name
	e.Email = a.Email
	e.HiredOn = a.HiredOn
	e.CompanyID = a.CompanyID
	e.DepartmentID = a.DepartmentID
}

func (a EmployeeAudit) RowEntityID() int64 { return a.EmployeeID }
func (a EmployeeAudit) RowAuditID() int64 { return a.AuditID }
func (a EmployeeAudit) RowCreatedDate() time.Time { return a.CreatedDate }
func (a EmployeeAudit) RowOperation() AuditOperation { return a.Operation }
