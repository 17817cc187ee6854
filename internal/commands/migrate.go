package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/docket/internal/logging"
	"github.com/nhle/docket/internal/store"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply every schema migration the database has not seen yet.

With --all every migration runs again. Each step is idempotent, so this
repairs a database whose recorded version does not match its tables.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}
	cmd.Flags().Bool("all", false, "re-run every migration")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := cmd.Context()
	// Opening the store applies pending migrations.
	s, err := store.NewSQLiteStore(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("migrating %s: %w", cfg.DBPath, err)
	}
	defer s.Close()

	if all, _ := cmd.Flags().GetBool("all"); all {
		logger.Info("re-running all migrations", "db", cfg.DBPath)
		if err := s.Remigrate(ctx); err != nil {
			return err
		}
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is at schema version %d\n", cfg.DBPath, version)
	return nil
}
