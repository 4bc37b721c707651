package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the shared root command with fresh flag values
func execute(t *testing.T, ctx context.Context, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	resetFlags(cmd)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(ctx)

	err := cmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantErr        bool
		expectedOutput string
	}{
		{
			name:           "root command without args shows help",
			args:           []string{},
			wantErr:        false,
			expectedOutput: "normalized podcast feeds",
		},
		{
			name:           "root command with --help",
			args:           []string{"--help"},
			wantErr:        false,
			expectedOutput: "Available Commands:",
		},
		{
			name:           "root command with invalid flag",
			args:           []string{"--invalid-flag"},
			wantErr:        true,
			expectedOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(t, nil, "", tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.expectedOutput != "" && !strings.Contains(output, tt.expectedOutput) {
				t.Errorf("Expected output to contain %q, got %q", tt.expectedOutput, output)
			}
		})
	}
}

func TestRootCommandListsSubcommands(t *testing.T) {
	output, err := execute(t, nil, "", "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, name := range []string{"serve", "feeds", "ingest", "migrate", "version"} {
		if !strings.Contains(output, name) {
			t.Errorf("Expected help to list %q", name)
		}
	}
}

func TestLogFlags(t *testing.T) {
	cmd := NewRootCmd()

	logFlag := cmd.PersistentFlags().Lookup("log-level")
	if logFlag == nil {
		t.Error("Expected log-level flag to be registered")
		return
	}

	if logFlag.DefValue != "info" {
		t.Errorf("Expected default log-level to be 'info', got %s", logFlag.DefValue)
	}

	if cmd.PersistentFlags().Lookup("json-logs") == nil {
		t.Error("Expected json-logs flag to be registered")
	}

	if cmd.PersistentFlags().Lookup("config") == nil {
		t.Error("Expected config flag to be registered")
	}
}
