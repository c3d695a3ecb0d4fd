package domain

import "time"

// Department is a versioned business entity grouping employees.
type Department struct {
	ID         int64      `json:"id"`
	RowVersion int64      `json:"rowVersion"`
	CreatedOn  *time.Time `json:"createdOn,omitempty"`
	Name       string     `json:"name"`
	CostCenter string     `json:"costCenter"`
}

func (d *Department) EntityKind() string { return KindDepartment }
func (d *Department) EntityID() int64 { return d.ID }
func (d *Department) EntityVersion() int64 { return d.RowVersion }

func (d *Department) StampPersistence(id int64, rowVersion int64, createdOn *time.Time) {
	d.ID = id
	d.RowVersion = rowVersion
	d.CreatedOn = createdOn
}

// DepartmentAudit is the append-only mirror of one change to a Department.
type DepartmentAudit struct {
	AuditID        int64          `json:"auditId"`
	DepartmentID   int64          `json:"departmentId"`
	RowVersion     int64          `json:"rowVersion"`
	CreatedDate    time.Time      `json:"createdDate"`
	CreatedOn      *time.Time     `json:"createdOn,omitempty"`
	Operation      AuditOperation `json:"operation"`
	LoggedUserName *string        `json:"loggedUserName,omitempty"`
	Name           string         `json:"name"`
	CostCenter     string         `json:"costCenter"`
}

// NewDepartmentAudit copies the department's business fields into a fresh audit row.
func NewDepartmentAudit(d Department) DepartmentAudit {
	return DepartmentAudit{
		DepartmentID: d.ID,
		CreatedOn:    d.CreatedOn,
		Name:         d.Name,
		CostCenter:   d.CostCenter,
	}
}

// RestoreTo copies the audited business fields back onto a live department.
func (a DepartmentAudit) RestoreTo(d *Department) {
	d.Name = a.Name
	d.CostCenter = a.CostCenter
}

func (a DepartmentAudit) RowEntityID() int64 { return a.DepartmentID }
func (a DepartmentAudit) RowAuditID() int64 { return a.AuditID }
func (a DepartmentAudit) RowCreatedDate() time.Time { return a.CreatedDate }
func (a DepartmentAudit) RowOperation() AuditOperation { return a.Operation }
