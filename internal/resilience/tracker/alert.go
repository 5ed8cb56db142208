package tracker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zircote/nsip-plugin/internal/core/domain"
)

const alertRule = "================================================================================"
const alertSubRule = "--------------------------------------------------------------------------------"

// troubleshootingTips is the fixed guidance attached to every alert.
var troubleshootingTips = []string{
	"Check your internet connection",
	"Verify the NSIP API is operational: http://nsipsearch.nsip.org",
	"Check if your API credentials are valid (if required)",
	"Try accessing the API directly in a browser",
	"Check the plugin logs for detailed error messages",
	"Wait a few minutes and try again - the API may be temporarily unavailable",
	"Contact NSIP support if the issue persists",
}

// writeAlert renders and writes one immutable alert file, returning its
// path, or "" when the write fails.
func (t *Tracker) writeAlert(now time.Time, failures []domain.FailureRecord) string {
	path := filepath.Join(t.dir, fmt.Sprintf("ALERT_%s.txt", now.Format("20060102_150405")))

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		slog.Debug("alert write skipped", "error", err)
		return ""
	}
	if err := os.WriteFile(path, []byte(t.renderAlert(now, failures)), 0o644); err != nil {
		slog.Debug("alert write failed", "error", err)
		return ""
	}
	return path
}

func (t *Tracker) renderAlert(now time.Time, failures []domain.FailureRecord) string {
	perTool := make(map[string]int)
	for _, f := range failures {
		perTool[f.Tool]++
	}
	tools := make([]string, 0, len(perTool))
	for tool := range perTool {
		tools = append(tools, tool)
	}
	sort.Strings(tools)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line(alertRule)
	line("NSIP API FAILURE ALERT")
	line(alertRule)
	line("")
	line("Alert Time: %s UTC", now.Format("2006-01-02 15:04:05"))
	line("Total Failures: %d in the last %d minutes", len(failures), int(t.cfg.Window.Minutes()))
	line("")

	line("AFFECTED TOOLS:")
	line(alertSubRule)
	for _, tool := range tools {
		line("  %s: %d failure(s)", tool, perTool[tool])
	}
	line("")

	line("FAILURE DETAILS:")
	line(alertSubRule)
	details := failures
	if len(details) > 5 {
		details = details[len(details)-5:]
	}
	for i, f := range details {
		line("%d. Tool: %s", i+1, f.Tool)
		line("   Time: %s", f.Timestamp.Format(time.RFC3339))
		line("   Error: %s", f.Reason)
		line("")
	}

	line("TROUBLESHOOTING STEPS:")
	line(alertSubRule)
	for i, tip := range troubleshootingTips {
		line("%d. %s", i+1, tip)
	}
	line("")

	line(alertRule)
	line("This alert was automatically generated by the NSIP plugin error notifier.")
	line(alertRule)

	return b.String()
}
