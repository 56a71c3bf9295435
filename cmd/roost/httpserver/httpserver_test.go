// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roostlabs/roost/genesis"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/lvldb"
	"github.com/roostlabs/roost/metrics"
)

func TestStartAdminServer(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	l, err := ledger.New(db, genesis.NewDevnet(), nil, nil)
	require.NoError(t, err)

	var logLevel slog.LevelVar
	url, closer, err := StartAdminServer("127.0.0.1:0", &logLevel, l)
	require.NoError(t, err)
	defer closer()

	assert.True(t, strings.HasSuffix(url, "/admin"))

	res, err := http.Get(url + "/loglevel")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestStartMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	metrics.Counter("server_started_count").Add(1)

	url, closer, err := StartMetricsServer("127.0.0.1:0")
	require.NoError(t, err)
	defer closer()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "roost_metrics")
}
