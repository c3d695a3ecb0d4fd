package export

import (
	"testing"
)

func TestBuildWorkbook(t *testing.T) {
	rows := [][]any{
		{int64(1), "INSERT", "Initech"},
		{int64(2), "UPDATE", "Initrode"},
	}

	f, err := buildWorkbook("Company Audit",
		[]string{"Audit ID", "Operation", "Name"},
		len(rows), func(i int) []any { return rows[i] })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Company Audit" {
		t.Fatalf("expected single sheet 'Company Audit', got %v", sheets)
	}

	cases := []struct {
		cell string
		want string
	}{
		{"A1", "Audit ID"},
		{"B1", "Operation"},
		{"C1", "Name"},
		{"A2", "1"},
		{"B2", "INSERT"},
		{"C2", "Initech"},
		{"A3", "2"},
		{"C3", "Initrode"},
	}
	for _, tc := range cases {
		got, err := f.GetCellValue("Company Audit", tc.cell)
		if err != nil {
			t.Fatalf("cell %s: %v", tc.cell, err)
		}
		if got != tc.want {
			t.Errorf("cell %s: expected %q, got %q", tc.cell, tc.want, got)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatTime(nil); got != "" {
		t.Errorf("nil time must render empty, got %q", got)
	}
	if got := textOrEmpty(nil); got != "" {
		t.Errorf("nil text must render empty, got %q", got)
	}
	name := "alice"
	if got := textOrEmpty(&name); got != "alice" {
		t.Errorf("expected alice, got %q", got)
	}
	if got := int64OrEmpty(nil); got != "" {
		t.Errorf("nil id must render empty, got %v", got)
	}
}
