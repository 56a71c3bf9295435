// Copyright (c) 2024 The Roost developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessageCache_GetOrAdd(t *testing.T) {
	cache := newMessageCache[LedgerMessage](10)

	counter := atomic.Int32{}
	wg := sync.WaitGroup{}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		start := time.Now().Add(20 * time.Millisecond)
		go func() {
			defer wg.Done()
			time.Sleep(time.Until(start))
			_, added, err := cache.GetOrAdd(0, func() (LedgerMessage, error) {
				return LedgerMessage{Seq: 0, Kind: "genesis"}, nil
			})
			assert.NoError(t, err)
			if added {
				counter.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, counter.Load(), int32(1))

	_, added, err := cache.GetOrAdd(1, func() (LedgerMessage, error) {
		return LedgerMessage{Seq: 1, Kind: "deposit"}, nil
	})
	assert.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, cache.cache.Len(), 2)
}

func TestMessageCacheSizeBounds(t *testing.T) {
	assert.NotPanics(t, func() { newMessageCache[LedgerMessage](0) })
	assert.NotPanics(t, func() { newMessageCache[LedgerMessage](5000) })
}
