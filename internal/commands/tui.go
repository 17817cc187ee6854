package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/docket/internal/app"
	"github.com/nhle/docket/internal/logging"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := logging.New(logFile, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Prefix:     "tui",
		Timestamps: true,
	})

	svc, closeStore, err := openService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	p := tea.NewProgram(
		app.New(svc, logger),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
