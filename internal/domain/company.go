package domain

import "time"

// Company is a versioned business entity. ID and CreatedOn are assigned by
// storage on first insert; RowVersion is derived from the persisted value at
// save time and must not be set directly by callers.
type Company struct {
	ID            int64      `json:"id"`
	RowVersion    int64      `json:"rowVersion"`
	CreatedOn     *time.Time `json:"createdOn,omitempty"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	EstablishedOn *time.Time `json:"establishedOn,omitempty"`
}

func (c *Company) EntityKind() string { return KindCompany }
func (c *Company) EntityID() int64 { return c.ID }
func (c *Company) EntityVersion() int64 { return c.RowVersion }

func (c *Company) StampPersistence(id int64, rowVersion int64, createdOn *time.Time) {
	c.ID = id
	c.RowVersion = rowVersion
	c.CreatedOn = createdOn
}

// CompanyAudit is the append-only mirror of one change to a Company.
type CompanyAudit struct {
	AuditID        int64          `json:"auditId"`
	CompanyID      int64          `json:"companyId"`
	RowVersion     int64          `json:"rowVersion"`
	CreatedDate    time.Time      `json:"createdDate"`
	CreatedOn      *time.Time     `json:"createdOn,omitempty"`
	Operation      AuditOperation `json:"operation"`
	LoggedUserName *string        `json:"loggedUserName,omitempty"`
	Name           string         `json:"name"`
	Address        string         `json:"address"`
	City           string         `json:"city"`
	EstablishedOn  *time.Time     `json:"establishedOn,omitempty"`
}

// NewCompanyAudit copies the company's business fields into a fresh audit
// row. Operation, version and provenance stamps are filled in by the
// interceptor.
func NewCompanyAudit(c Company) CompanyAudit {
	return CompanyAudit{
		CompanyID:     c.ID,
		CreatedOn:     c.CreatedOn,
		Name:          c.Name,
		Address:       c.Address,
		City:          c.City,
		EstablishedOn: c.EstablishedOn,
	}
}

// RestoreTo copies the audited business fields back onto a live company.
// Identity, RowVersion and CreatedOn are left for the normal save path.
func (a CompanyAudit) RestoreTo(c *Company) {
	c.Name = a.Name
	c.Address = a.Address
	c.City = a.City
	c.EstablishedOn = a.EstablishedOn
}

func (a CompanyAudit) RowEntityID() int64 { return a.CompanyID }
func (a CompanyAudit) RowAuditID() int64 { return a.AuditID }
func (a CompanyAudit) RowCreatedDate() time.Time { return a.CreatedDate }
func (a CompanyAudit) RowOperation() AuditOperation { return a.Operation }
