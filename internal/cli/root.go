package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/zircote/nsip-plugin/internal/control"
	"github.com/zircote/nsip-plugin/internal/core/config"
	"github.com/zircote/nsip-plugin/internal/core/domain"
)

var (
	cfgPath string
	rootDir string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "nsip-hook",
	Short: "NSIP API resilience hook",
	Long: `nsip-hook reads one tool-call record from stdin, classifies the outcome,
maintains cache and failure state on the local filesystem, and prints an
advisory decision as JSON. It never blocks the caller.`,
	Run: runHook,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (defaults apply when absent)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "state root directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// loadConfig loads configuration and initializes logging. Logs go to
// stderr: stdout is reserved for the decision JSON.
func loadConfig() *config.AppConfig {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if rootDir != "" {
		cfg.Root = rootDir
	}

	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})))

	return cfg
}

func runHook(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	enc := json.NewEncoder(os.Stdout)

	var input domain.HookInput
	if err := json.NewDecoder(os.Stdin).Decode(&input); err != nil {
		// Malformed input is absorbed: the caller always continues.
		_ = enc.Encode(domain.Decision{
			Continue: true,
			Metadata: map[string]any{"error": "malformed input: " + err.Error()},
		})
		return
	}

	pipeline := control.NewPipeline(cfg)
	decision := pipeline.Process(context.Background(), input)

	if err := enc.Encode(decision); err != nil {
		slog.Error("Failed to write decision", "error", err)
	}
}
