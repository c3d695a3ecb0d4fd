package domain

import "fmt"

// AuditOperation classifies the change that produced an audit row.
type AuditOperation string

const (
	OpInsert AuditOperation = "INSERT"
	OpUpdate AuditOperation = "UPDATE"
	OpDelete AuditOperation = "DELETE"
)

// Valid reports whether the value is one of the known operations.
func (op AuditOperation) Valid() bool {
	switch op {
	case OpInsert, OpUpdate, OpDelete:
		return true
	default:
		return false
	}
}

// ParseAuditOperation converts a stored operation value back to the enum.
func ParseAuditOperation(value string) (AuditOperation, error) {
	op := AuditOperation(value)
	if !op.Valid() {
		return "", fmt.Errorf("unknown audit operation %q", value)
	}
	return op, nil
}
