package domain

import "testing"

func TestParseAuditOperation(t *testing.T) {
	for _, value := range []string{"INSERT", "UPDATE", "DELETE"} {
		op, err := ParseAuditOperation(value)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", value, err)
		}
		if string(op) != value {
			t.Errorf("expected %q, got %q", value, op)
		}
	}

	if _, err := ParseAuditOperation("UPSERT"); err == nil {
		t.Error("expected error for unknown operation")
	}
	if _, err := ParseAuditOperation("insert"); err == nil {
		t.Error("expected error for lowercase operation")
	}
}
