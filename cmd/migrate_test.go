package cmd

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrateCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		stdin          string
		wantErr        bool
		expectedOutput string
	}{
		{
			name:           "migrate command with help",
			args:           []string{"migrate", "--help"},
			expectedOutput: "Manage the database schema",
		},
		{
			name:           "migrate up subcommand",
			args:           []string{"migrate", "up", "--help"},
			expectedOutput: "Create or update all database tables",
		},
		{
			name:           "migrate down subcommand",
			args:           []string{"migrate", "down", "--help"},
			expectedOutput: "Drop all database tables",
		},
		{
			name:           "migrate status subcommand",
			args:           []string{"migrate", "status", "--help"},
			expectedOutput: "Display the current status",
		},
		{
			name:           "migrate up dry run",
			args:           []string{"migrate", "up", "--dry-run"},
			expectedOutput: "would migrate feed_summaries",
		},
		{
			name:           "migrate down dry run",
			args:           []string{"migrate", "down", "--dry-run"},
			expectedOutput: "would drop feed_summaries",
		},
		{
			name:           "migrate down declined",
			args:           []string{"migrate", "down"},
			stdin:          "n\n",
			expectedOutput: "Migration rollback cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(t, nil, tt.stdin, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.expectedOutput != "" && !strings.Contains(output, tt.expectedOutput) {
				t.Errorf("Expected output to contain %q, got %q", tt.expectedOutput, output)
			}
		})
	}
}

func TestMigrateLifecycle(t *testing.T) {
	t.Setenv("PODHUB_DATABASE_PATH", filepath.Join(t.TempDir(), "podhub.db"))

	output, err := execute(t, nil, "", "migrate", "status")
	if err != nil {
		t.Fatalf("status before up: %v", err)
	}
	if !strings.Contains(output, "missing") {
		t.Errorf("Expected missing table before migrating, got %q", output)
	}

	output, err = execute(t, nil, "", "migrate", "up")
	if err != nil {
		t.Fatalf("up: %v", err)
	}
	if !strings.Contains(output, "Migrated 1 table(s)") {
		t.Errorf("Unexpected up output %q", output)
	}

	output, err = execute(t, nil, "", "migrate", "status")
	if err != nil {
		t.Fatalf("status after up: %v", err)
	}
	if !strings.Contains(output, "present") || !strings.Contains(output, "Stored feed records: 0") {
		t.Errorf("Unexpected status output %q", output)
	}

	output, err = execute(t, nil, "y\n", "migrate", "down")
	if err != nil {
		t.Fatalf("down: %v", err)
	}
	if !strings.Contains(output, "Dropped all tables") {
		t.Errorf("Unexpected down output %q", output)
	}

	output, err = execute(t, nil, "", "migrate", "status")
	if err != nil {
		t.Fatalf("status after down: %v", err)
	}
	if !strings.Contains(output, "missing") {
		t.Errorf("Expected missing table after dropping, got %q", output)
	}
}

func TestMigrateCommandSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	migrateCmd, _, err := cmd.Find([]string{"migrate"})
	if err != nil {
		t.Fatalf("Failed to find migrate command: %v", err)
	}

	expectedSubcommands := []string{"up", "down", "status"}
	for _, subCmd := range expectedSubcommands {
		found := false
		for _, child := range migrateCmd.Commands() {
			if child.Name() == subCmd {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected migrate command to have %q subcommand", subCmd)
		}
	}
}
