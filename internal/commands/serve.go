package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	dockethttp "github.com/nhle/docket/internal/http"
	mw "github.com/nhle/docket/internal/http/middleware"
	"github.com/nhle/docket/internal/logging"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web API and web UI",
		Long: `Serve the JSON API under /api, the web UI at /, health at /health and
Prometheus metrics at /metrics. Stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().Int("port", 0, "port to listen on (default 3000)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: true,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeStore, err := openService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("closing database", "err", err)
		}
	}()

	router := dockethttp.NewRouter(svc, dockethttp.RouterOptions{
		Logger:      logger,
		Metrics:     mw.NewMetrics(),
		CORSOrigins: cfg.CORSOrigins,
	})
	return dockethttp.NewServer(cfg.Addr(), router, logger).Run(ctx)
}
