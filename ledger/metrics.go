// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"time"

	"github.com/roostlabs/roost/metrics"
)

var (
	metricOpCount    = metrics.LazyLoadCounterVec("ledger_op_count", []string{"kind", "status"})
	metricOpDuration = metrics.LazyLoadHistogramVec(
		"ledger_op_duration_ms", []string{"kind", "status"}, metrics.Bucket10s,
	)

	metricHeadSeq       = metrics.LazyLoadGauge("ledger_head_seq")
	metricTotalStaked   = metrics.LazyLoadGauge("ledger_total_staked")
	metricRewardsMinted = metrics.LazyLoadCounter("ledger_rewards_minted")
)

func countOp(kind, status string, startTime time.Time) {
	labels := map[string]string{
		"kind":   kind,
		"status": status,
	}
	metricOpCount().AddWithLabel(1, labels)
	metricOpDuration().ObserveWithLabels(time.Since(startTime).Milliseconds(), labels)
}
