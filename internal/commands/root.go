// Package commands wires docket's command-line interface: the terminal UI
// (the default), the web server and the migration runner.
package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/docket/internal/config"
	"github.com/nhle/docket/internal/service"
	"github.com/nhle/docket/internal/store"
)

// NewRootCmd builds the docket command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "docket",
		Short: "Projects and todos in your terminal or browser",
		Long: `docket keeps todos grouped into projects in a local SQLite database.

Commands:
  docket                 Launch the terminal UI (default)
  docket serve           Serve the web API and web UI
  docket migrate         Apply pending database migrations

Config: ` + config.DefaultConfigPath() + `
Env:    DOCKET_DB_PATH, DOCKET_PORT, DOCKET_LOG_LEVEL, DOCKET_LOG_FILE, DOCKET_CORS_ORIGINS`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	root.PersistentFlags().String("db", "", "path to the SQLite database")
	root.PersistentFlags().String("config", "", "path to the YAML config file")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

// loadConfig resolves the configuration for cmd, honouring only the flags
// the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(config.LoadOptions{
		ConfigPath: path,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.EnsureDBDir(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openService opens the store, applying pending migrations, and wraps it in
// a Service. The returned close func releases the database.
func openService(ctx context.Context, cfg *config.Config, logger *log.Logger) (*service.Service, func() error, error) {
	s, err := store.NewSQLiteStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database %s: %w", cfg.DBPath, err)
	}
	logger.Debug("database ready", "path", cfg.DBPath)
	return service.New(s, logger), s.Close, nil
}
