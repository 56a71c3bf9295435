// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminschedule "github.com/roostlabs/roost/api/admin/schedule"
	"github.com/roostlabs/roost/api/schedules"
	"github.com/roostlabs/roost/genesis"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/logdb"
	"github.com/roostlabs/roost/lvldb"
	"github.com/roostlabs/roost/vault"
)

func initScheduleServer(t *testing.T) (*httptest.Server, *ledger.Ledger) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	index, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	l, err := ledger.New(store, genesis.NewDevnet(), index, nil)
	require.NoError(t, err)

	router := mux.NewRouter()
	adminschedule.New(l).Mount(router, "/admin/schedule")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, l
}

func TestReplaceSchedule(t *testing.T) {
	ts, l := initScheduleServer(t)

	flat := []schedules.JSONSegment{{StartDay: 0, EndDay: 30, FlatRate: 3}}
	body, err := json.Marshal(flat)
	require.NoError(t, err)

	res, err := http.Post(ts.URL+"/admin/schedule", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	data, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))

	var reply adminschedule.Response
	require.NoError(t, json.Unmarshal(data, &reply))
	assert.Equal(t, uint64(1), reply.Seq)
	assert.Equal(t, flat, reply.Installed)

	// the replacement is visible through the ledger
	require.NoError(t, l.ReadVault(func(v *vault.Vault, _ uint64) error {
		installed, err := v.Schedule()
		if err != nil {
			return err
		}
		assert.Equal(t, schedules.ToSegments(flat), installed)
		return nil
	}))
}

func TestReplaceScheduleRejectsBadSegments(t *testing.T) {
	ts, _ := initScheduleServer(t)

	// a segment ending before it starts reverts the replacement
	inverted := []schedules.JSONSegment{{StartDay: 10, EndDay: 5, FlatRate: 1}}
	body, err := json.Marshal(inverted)
	require.NoError(t, err)

	res, err := http.Post(ts.URL+"/admin/schedule", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// so does an empty schedule
	res, err = http.Post(ts.URL+"/admin/schedule", "application/json", bytes.NewReader([]byte("[]")))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestReplaceScheduleRejectsBadBody(t *testing.T) {
	ts, _ := initScheduleServer(t)

	res, err := http.Post(ts.URL+"/admin/schedule", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
