// Package health provides system health monitoring and status reporting.
package health

import (
	"time"

	"github.com/zircote/nsip-plugin/internal/infra/storage/fscache"
)

// SystemStatus represents the overall health state of the resilience layer.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// Report contains the full health report derived from persisted state.
type Report struct {
	Status         SystemStatus  `json:"status"`
	RecentFailures int           `json:"recent_failures"`
	WindowMinutes  int           `json:"window_minutes"`
	Threshold      int           `json:"threshold"`
	LastAlert      *time.Time    `json:"last_alert,omitempty"`
	Cache          fscache.Stats `json:"cache"`
}
