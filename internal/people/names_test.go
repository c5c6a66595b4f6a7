package people

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve_HeuristicRules(t *testing.T) {
	nm := NewNameMap("")
	cases := []struct {
		email string
		want  string
	}{
		{"john.doe@x.com", "John Doe"},
		{"mary.jane.watson@x.com", "Mary Jane Watson"},
		{"JohnDoe@x.com", "John Doe"},
		{"johnDoe@x.com", "John Doe"},
		{"john_doe@x.com", "John Doe"},
		{"john-doe@x.com", "John Doe"},
		// 17 runes, split at floor(17*0.6) = 10.
		{"superlongusername@x.com", "Superlongu Sername"},
		{"bob@x.com", "Bob"},
		{"JOHN@x.com", "JOHN"},
		{"no-at-sign", "no-at-sign"},
	}
	for _, tc := range cases {
		if got := nm.Resolve(tc.email); got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestResolve_CapitalizeKeepsRest(t *testing.T) {
	nm := NewNameMap("")
	// Capitalize must not lowercase the remainder.
	if got := nm.Resolve("mcDonald.jR@x.com"); got != "McDonald JR" {
		t.Errorf("Resolve = %q, want %q", got, "McDonald JR")
	}
}

func writeNameMap(t *testing.T, content string) *NameMap {
	t.Helper()
	path := filepath.Join(t.TempDir(), "names.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewNameMap(path)
}

func TestLoad_MappingWinsOverHeuristics(t *testing.T) {
	nm := writeNameMap(t, "jane@x.com,Jane Q\n")
	if err := nm.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := nm.Resolve("jane@x.com"); got != "Jane Q" {
		t.Errorf("Resolve = %q, want %q", got, "Jane Q")
	}
	// Lookup is case-insensitive on the email.
	if got := nm.Resolve("Jane@X.com"); got != "Jane Q" {
		t.Errorf("Resolve = %q, want %q", got, "Jane Q")
	}
}

func TestLoad_HeaderAndMalformedRows(t *testing.T) {
	nm := writeNameMap(t, "Email,Name\na@x.com,Alice A\nnot a row\n\nb@x.com,Bob B, Jr.\n")
	if err := nm.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if nm.Len() != 2 {
		t.Errorf("Len = %d, want 2", nm.Len())
	}
	if got := nm.Resolve("a@x.com"); got != "Alice A" {
		t.Errorf("Resolve = %q", got)
	}
	// Names may contain commas; everything after the first comma is the name.
	if got := nm.Resolve("b@x.com"); got != "Bob B, Jr." {
		t.Errorf("Resolve = %q", got)
	}
}

func TestLoad_ReloadReplacesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.csv")
	if err := os.WriteFile(path, []byte("old@x.com,Old Name\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nm := NewNameMap(path)
	if err := nm.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := os.WriteFile(path, []byte("new@x.com,New Name\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := nm.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if nm.Len() != 1 {
		t.Errorf("Len = %d, want 1 after reload", nm.Len())
	}
	// Old entry gone: heuristic result, not the stale mapping.
	if got := nm.Resolve("old@x.com"); got == "Old Name" {
		t.Error("reload must clear previous entries")
	}
	if got := nm.Resolve("new@x.com"); got != "New Name" {
		t.Errorf("Resolve = %q, want %q", got, "New Name")
	}
}

func TestLoad_MissingFileKeepsTable(t *testing.T) {
	nm := writeNameMap(t, "a@x.com,Alice\n")
	if err := nm.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := os.Remove(nm.Path()); err != nil {
		t.Fatal(err)
	}
	if err := nm.Load(); err == nil {
		t.Fatal("expected error for missing file")
	}
	// Failed load leaves the previous table intact.
	if got := nm.Resolve("a@x.com"); got != "Alice" {
		t.Errorf("Resolve = %q, want %q", got, "Alice")
	}
}

func TestLoad_EmptyPathIsNoop(t *testing.T) {
	nm := NewNameMap("")
	if err := nm.Load(); err != nil {
		t.Fatalf("Load with empty path: %v", err)
	}
	if nm.Len() != 0 {
		t.Errorf("Len = %d, want 0", nm.Len())
	}
}
