package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm/schema"

	"github.com/killallgit/podhub/internal/database"
	"github.com/killallgit/podhub/internal/models"
	"github.com/killallgit/podhub/internal/services/summaries"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the database schema used to store feed list records.

Available subcommands:
  up      - Create or update all tables
  down    - Drop all tables
  status  - Show which tables exist`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update all tables",
	Long: `Create or update all database tables.

Existing tables are altered in place; stored rows are kept.`,
	RunE: runMigrateUp,
}

// migrateDownCmd drops the schema
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Drop all tables",
	Long: `Drop all database tables.

Every stored feed list record is lost. The next catalog load repopulates
the public list.`,
	RunE: runMigrateDown,
}

// migrateStatusCmd shows schema status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current status of the database schema.

This command shows which tables exist and how many feed list records
are stored.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateDownCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

func openDatabase(cmd *cobra.Command) (*database.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	setupLogging(cmd, cfg)

	if cfg.Database.Path == "" {
		return nil, fmt.Errorf("database.path is not configured")
	}
	return database.Initialize(cfg.Database)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		for _, name := range tableNames() {
			fmt.Fprintf(out, "  would migrate %s\n", name)
		}
		return nil
	}

	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintf(out, "Migrated %d table(s)\n", len(models.All()))
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")
	out := cmd.OutOrStdout()

	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		for _, name := range tableNames() {
			fmt.Fprintf(out, "  would drop %s\n", name)
		}
		return nil
	}

	if !yes && !confirm(cmd, fmt.Sprintf("WARNING: This will drop %d table(s). Continue? (y/N): ", len(models.All()))) {
		fmt.Fprintln(out, "Migration rollback cancelled")
		return nil
	}

	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DropTables(models.All()...); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	log.Info("Dropped all tables")
	fmt.Fprintln(out, "Dropped all tables")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Database Migration Status")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	ready := true
	for i, model := range models.All() {
		state := "missing"
		if db.HasTable(model) {
			state = "present"
		} else {
			ready = false
		}
		fmt.Fprintf(out, "  %-24s %s\n", tableNames()[i], state)
	}

	if ready {
		count, err := summaries.NewRepository(db.DB).Count(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nStored feed records: %d\n", count)
	} else {
		fmt.Fprintln(out, "\nRun 'podhub migrate up' to create missing tables")
	}

	return nil
}

func tableNames() []string {
	var names []string
	for _, model := range models.All() {
		if t, ok := model.(schema.Tabler); ok {
			names = append(names, t.TableName())
			continue
		}
		names = append(names, fmt.Sprintf("%T", model))
	}
	return names
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	response = strings.TrimSpace(response)
	return response == "y" || response == "Y"
}
