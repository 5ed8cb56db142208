package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zircote/nsip-plugin/internal/core/config"
	"github.com/zircote/nsip-plugin/internal/infra/storage/fscache"
	"github.com/zircote/nsip-plugin/internal/resilience/health"
	"github.com/zircote/nsip-plugin/internal/resilience/tracker"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the health and metrics HTTP server",
	Run:   runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	server := health.NewServer(newMonitor(cfg), port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Health server started", "port", port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server failed", "error", err)
			os.Exit(1)
		}
	}()

	sig := <-sigChan
	slog.Info("Received signal, shutting down...", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}
}

func newMonitor(cfg *config.AppConfig) *health.Monitor {
	trk := tracker.NewTracker(cfg.Tracker, cfg.LogDir())
	store := fscache.NewStore(cfg.CacheDir(), cfg.Cache.TTL)
	return health.NewMonitor(cfg.Tracker, trk, store)
}
