// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import "github.com/roostlabs/roost/metrics"

var metricCacheHitMiss = metrics.LazyLoadGaugeVec("lvldb_cache_hit_miss_count", []string{"event"})
