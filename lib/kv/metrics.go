package kv

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

// countOp counts one backend round trip issued by the adapter
func countOp(op string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`bkv_kv_ops_total{op=%q}`, op)).Inc()
}

// countAbsorbed counts one backend failure absorbed into an empty result
func countAbsorbed(op string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`bkv_kv_absorbed_errors_total{op=%q}`, op)).Inc()
}
