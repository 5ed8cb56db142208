package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zircote/nsip-plugin/internal/infra/storage/fscache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry count and size",
	Run:   runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached entries",
	Run:   runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	store := fscache.NewStore(cfg.CacheDir(), cfg.Cache.TTL)
	stats := store.Stats()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintf(w, "ENTRIES\t%d\n", stats.Entries)
	_, _ = fmt.Fprintf(w, "SIZE\t%d bytes\n", stats.TotalSizeBytes)
	_, _ = fmt.Fprintf(w, "DIR\t%s\n", stats.Dir)
	_ = w.Flush()
}

func runCacheClear(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	store := fscache.NewStore(cfg.CacheDir(), cfg.Cache.TTL)

	before := store.Stats().Entries
	store.Clear()
	fmt.Printf("Removed %d cache entries\n", before)
}
