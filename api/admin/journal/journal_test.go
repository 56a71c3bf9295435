// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package journal_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roostlabs/roost/api/admin/journal"
	"github.com/roostlabs/roost/genesis"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/logdb"
	"github.com/roostlabs/roost/lvldb"
)

func TestGetJournalStatus(t *testing.T) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	index, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	l, err := ledger.New(store, genesis.NewDevnet(), index, nil)
	require.NoError(t, err)

	router := mux.NewRouter()
	journal.New(l).Mount(router, "/admin/journal")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	res, err := http.Get(ts.URL + "/admin/journal")
	require.NoError(t, err)
	data, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var status journal.Status
	require.NoError(t, json.Unmarshal(data, &status))
	// a fresh devnet journal holds just the genesis entry
	assert.Equal(t, uint64(0), status.HeadSeq)
	assert.Equal(t, uint64(1), status.Entries)
	assert.Equal(t, l.GenesisID(), status.GenesisID)

	// depositing appends to the journal
	grant := genesis.DevAssets()[1]
	_, err = l.Deposit(grant.Owner, grant.ID)
	require.NoError(t, err)

	res, err = http.Get(ts.URL + "/admin/journal")
	require.NoError(t, err)
	data, err = io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(data, &status))
	assert.Equal(t, uint64(1), status.HeadSeq)
	assert.Equal(t, uint64(2), status.Entries)
}
