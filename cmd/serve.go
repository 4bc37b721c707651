package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/killallgit/podhub/api"
	"github.com/killallgit/podhub/api/types"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the podhub API server with the configured settings.

The server normalizes feeds from the content API on request and serves
feeds, the feed catalog, episode lookups and download redirects.

Example:
  podhub serve
  podhub serve --port 9090
  podhub serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cmd, cfg)

	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	svc, err := buildServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	deps := &types.Dependencies{
		DB:      svc.db,
		Feeds:   svc.ingestor,
		Catalog: svc.catalog,
		Auth:    svc.client,
		Version: Version,
	}
	if svc.store != nil {
		deps.Summaries = svc.store
	}

	server := api.NewServer(cfg)
	server.SetDependencies(deps)
	if svc.cache != nil {
		server.SetFeedCache(svc.cache)
	}
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	log.WithFields(log.Fields{
		"addr":     server.Addr(),
		"upstream": svc.client.BaseURL(),
	}).Info("Server is ready to handle requests")

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down server")
	case runErr = <-serverErr:
		log.WithError(runErr).Error("Server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return err
	}

	log.Info("Server gracefully stopped")
	return runErr
}
