package ssdb

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

var (
	// reconnectsTotal counts (re-)established connections
	reconnectsTotal = metrics.NewCounter("bkv_ssdb_reconnects_total")
	// retriesTotal counts retried requests
	retriesTotal = metrics.NewCounter("bkv_ssdb_retries_total")
)

// observe records one finished command for the exported command counters
// and latency histograms
func observe(cmd string, start time.Time, err error) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`bkv_ssdb_commands_total{command=%q}`, cmd)).Inc()
	if err != nil {
		metrics.GetOrCreateCounter(fmt.Sprintf(`bkv_ssdb_command_errors_total{command=%q}`, cmd)).Inc()
		return
	}
	metrics.GetOrCreateHistogram(fmt.Sprintf(`bkv_ssdb_command_duration_seconds{command=%q}`, cmd)).UpdateDuration(start)
}
