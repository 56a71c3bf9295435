// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/roostlabs/roost/metrics"
)

var (
	metricJournalHead  = metrics.LazyLoadGauge("node_journal_head_seq")
	metricStakedAssets = metrics.LazyLoadGauge("node_staked_asset_count")
)
