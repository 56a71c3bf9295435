// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roostlabs/roost/api/rewards"
	"github.com/roostlabs/roost/genesis"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/logdb"
	"github.com/roostlabs/roost/lvldb"
	"github.com/roostlabs/roost/roost"
)

var (
	ts   *httptest.Server
	ldgr *ledger.Ledger
	now  uint64
)

func initRewardsServer(t *testing.T) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	index, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	gene := genesis.NewDevnet()
	now = gene.Timestamp()
	l, err := ledger.New(store, gene, index, func() uint64 { return now })
	require.NoError(t, err)
	ldgr = l

	router := mux.NewRouter()
	rewards.New(l).Mount(router, "/rewards")
	ts = httptest.NewServer(router)
	t.Cleanup(ts.Close)
}

func TestRewards(t *testing.T) {
	initRewardsServer(t)

	grant := genesis.DevAssets()[4]

	t.Run("malformed address", func(t *testing.T) {
		_, code := httpGet(t, ts.URL+"/rewards/zzz")
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("empty balance", func(t *testing.T) {
		res, code := httpGet(t, ts.URL+"/rewards/"+grant.Owner.String())
		assert.Equal(t, http.StatusOK, code)

		var bal rewards.Balance
		require.NoError(t, json.Unmarshal(res, &bal))
		assert.Equal(t, grant.Owner, bal.Address)
		assert.Equal(t, int64(0), (*big.Int)(bal.Balance).Int64())
	})

	t.Run("empty supply", func(t *testing.T) {
		res, code := httpGet(t, ts.URL+"/rewards")
		assert.Equal(t, http.StatusOK, code)

		var supply struct {
			TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
		}
		require.NoError(t, json.Unmarshal(res, &supply))
		assert.Equal(t, int64(0), (*big.Int)(supply.TotalSupply).Int64())
	})

	t.Run("settled rewards show up", func(t *testing.T) {
		_, err := ldgr.Deposit(grant.Owner, grant.ID)
		require.NoError(t, err)
		now += 7 * roost.DaySeconds
		_, err = ldgr.Settle(grant.Owner, grant.ID)
		require.NoError(t, err)

		res, code := httpGet(t, ts.URL+"/rewards/"+grant.Owner.String())
		assert.Equal(t, http.StatusOK, code)

		var bal rewards.Balance
		require.NoError(t, json.Unmarshal(res, &bal))
		assert.Equal(t, int64(49), (*big.Int)(bal.Balance).Int64())

		res, code = httpGet(t, ts.URL+"/rewards")
		assert.Equal(t, http.StatusOK, code)

		var supply struct {
			TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
		}
		require.NoError(t, json.Unmarshal(res, &supply))
		assert.Equal(t, int64(49), (*big.Int)(supply.TotalSupply).Int64())
	})
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url)
	require.NoError(t, err)
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	return r, res.StatusCode
}
