// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/qianbin/directcache"

	"github.com/roostlabs/roost/log"
)

var logger = log.WithContext("pkg", "lvldb")

// frontCache is the in-process read-through cache of the store.
// Writes go through it so cached values never go stale.
type frontCache struct {
	c           *directcache.Cache
	stats       cacheStats
	lastLogTime atomic.Int64
}

// newFrontCache creates the cache with the given size. Returns nil when
// sizeMB is not positive, which disables caching.
func newFrontCache(sizeMB int) *frontCache {
	if sizeMB <= 0 {
		return nil
	}
	fc := &frontCache{c: directcache.New(sizeMB * 1024 * 1024)}
	fc.lastLogTime.Store(time.Now().UnixNano())
	return fc
}

func (fc *frontCache) Get(key []byte) (val []byte, ok bool) {
	if fc.c.AdvGet(key, func(b []byte) { val = slices.Clone(b) }, false) {
		fc.stats.Hit()
		fc.log()
		return val, true
	}
	fc.stats.Miss()
	fc.log()
	return nil, false
}

func (fc *frontCache) Has(key []byte) bool {
	return fc.c.Has(key)
}

func (fc *frontCache) Set(key, val []byte) {
	fc.c.AdvSet(key, len(val), func(dst []byte) { copy(dst, val) })
}

func (fc *frontCache) Del(key []byte) {
	fc.c.Del(key)
}

func (fc *frontCache) log() {
	now := time.Now().UnixNano()
	last := fc.lastLogTime.Swap(now)

	if now-last > int64(time.Second*20) {
		should, hit, miss := fc.stats.Stats()

		// log only when the hit rate changed compared to the last run,
		// to avoid too many logs.
		if should {
			logStats("read cache stats", hit, miss)
		}

		// metrics are reported every 20 seconds
		metricCacheHitMiss().SetWithLabel(hit, map[string]string{"event": "hit"})
		metricCacheHitMiss().SetWithLabel(miss, map[string]string{"event": "miss"})
	} else {
		fc.lastLogTime.CompareAndSwap(now, last)
	}
}

type cacheStats struct {
	hit, miss atomic.Int64
	flag      atomic.Int64
}

func (cs *cacheStats) Hit() int64  { return cs.hit.Add(1) }
func (cs *cacheStats) Miss() int64 { return cs.miss.Add(1) }

// Stats returns the hit/miss counts and whether the hit rate moved since
// the last call.
func (cs *cacheStats) Stats() (bool, int64, int64) {
	hit := cs.hit.Load()
	miss := cs.miss.Load()
	lookups := hit + miss
	var flag int64
	if lookups > 0 {
		flag = (hit * 1000) / lookups
	}
	return cs.flag.Swap(flag) != flag, hit, miss
}

func logStats(msg string, hit, miss int64) {
	lookups := hit + miss
	var hitrate string
	if lookups > 0 {
		hitrate = fmt.Sprintf("%.3f", float64(hit)/float64(lookups))
	} else {
		hitrate = "n/a"
	}
	logger.Info(msg, "lookups", lookups, "hitrate", hitrate)
}
