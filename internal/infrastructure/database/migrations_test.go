package database

import "testing"

// TestParseMigrationFilename verifies version extraction from migration filenames.
func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantUp      bool
		wantOK      bool
	}{
		{"up migration", "20260815_100000_audit_logs.up.sql", "20260815_100000", true, true},
		{"down migration", "20260815_100000_audit_logs.down.sql", "20260815_100000", false, true},
		{"multi-word name", "20260901_093000_add_source_index.up.sql", "20260901_093000", true, true},
		{"not sql", "20260815_100000_audit_logs.up.txt", "", false, false},
		{"no direction", "20260815_100000_audit_logs.sql", "", false, false},
		{"missing name", "20260815.up.sql", "", false, false},
		{"readme", "README.md", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, isUp, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("parseMigrationFilename(%q) ok = %v, want %v", tt.filename, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion {
				t.Errorf("version = %q, want %q", version, tt.wantVersion)
			}
			if isUp != tt.wantUp {
				t.Errorf("isUp = %v, want %v", isUp, tt.wantUp)
			}
		})
	}
}

// TestExtractMigrationName verifies human-readable name extraction.
func TestExtractMigrationName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"20260815_100000_audit_logs.up.sql", "audit_logs"},
		{"20260815_100000_audit_logs.down.sql", "audit_logs"},
		{"20260901_093000_add_source_index.up.sql", "add_source_index"},
	}

	for _, tt := range tests {
		if got := extractMigrationName(tt.filename); got != tt.want {
			t.Errorf("extractMigrationName(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
