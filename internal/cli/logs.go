package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zircote/nsip-plugin/internal/infra/storage/audit"
)

var (
	logStream string
	logTail   int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print recent audit log records",
	Run:   runLogs,
}

func init() {
	logsCmd.Flags().StringVar(&logStream, "name", audit.QueryLog,
		"log stream (retry.log, fallback.log, query.log, detections.log)")
	logsCmd.Flags().IntVar(&logTail, "tail", 20, "number of records to show (0 = all)")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := audit.NewLogger(cfg.LogDir())

	records, err := logger.Tail(logStream, logTail)
	if err != nil {
		slog.Error("Failed to read log", "stream", logStream, "error", err)
		os.Exit(1)
	}

	for _, rec := range records {
		fmt.Println(string(rec))
	}
}
