// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets_test

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

	"github.com/roostlabs/roost/api/assets"
	"github.com/roostlabs/roost/genesis"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/logdb"
	"github.com/roostlabs/roost/lvldb"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/vault"
)

var (
	ts   *httptest.Server
	ldgr *ledger.Ledger
)

func initAssetsServer(t *testing.T) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	index, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	l, err := ledger.New(store, genesis.NewDevnet(), index, nil)
	require.NoError(t, err)
	ldgr = l

	router := mux.NewRouter()
	assets.New(l).Mount(router, "/assets")
	ts = httptest.NewServer(router)
	t.Cleanup(ts.Close)
}

func TestAssets(t *testing.T) {
	initAssetsServer(t)

	grant := genesis.DevAssets()[3]

	t.Run("unknown asset", func(t *testing.T) {
		id := roost.BytesToBytes32([]byte("no such asset"))
		res, code := httpGet(t, ts.URL+"/assets/"+id.String())
		assert.Equal(t, http.StatusOK, code)

		var a assets.Asset
		require.NoError(t, json.Unmarshal(res, &a))
		assert.False(t, a.Minted)
		assert.Nil(t, a.Owner)
		assert.False(t, a.Staked)
	})

	t.Run("minted asset", func(t *testing.T) {
		res, code := httpGet(t, ts.URL+"/assets/"+grant.ID.String())
		assert.Equal(t, http.StatusOK, code)

		var a assets.Asset
		require.NoError(t, json.Unmarshal(res, &a))
		assert.True(t, a.Minted)
		require.NotNil(t, a.Owner)
		assert.Equal(t, grant.Owner, *a.Owner)
		assert.False(t, a.Staked)
	})

	t.Run("total", func(t *testing.T) {
		res, code := httpGet(t, ts.URL+"/assets")
		assert.Equal(t, http.StatusOK, code)

		var total struct {
			Total *math.HexOrDecimal256 `json:"total"`
		}
		require.NoError(t, json.Unmarshal(res, &total))
		assert.Equal(t, int64(len(genesis.DevAssets())), (*big.Int)(total.Total).Int64())
	})

	t.Run("staked asset is held by the vault", func(t *testing.T) {
		_, err := ldgr.Deposit(grant.Owner, grant.ID)
		require.NoError(t, err)

		res, code := httpGet(t, ts.URL+"/assets/"+grant.ID.String())
		assert.Equal(t, http.StatusOK, code)

		var a assets.Asset
		require.NoError(t, json.Unmarshal(res, &a))
		assert.True(t, a.Minted)
		require.NotNil(t, a.Owner)
		assert.Equal(t, vault.Address, *a.Owner)
		assert.True(t, a.Staked)
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
