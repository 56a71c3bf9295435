// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roostlabs/roost/api/assets"
	"github.com/roostlabs/roost/api/events"
	"github.com/roostlabs/roost/api/rewards"
	"github.com/roostlabs/roost/api/schedules"
	"github.com/roostlabs/roost/api/stakes"
	"github.com/roostlabs/roost/health"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/roostclient/common"
)

func TestClient_GetStake(t *testing.T) {
	id := roost.Bytes32{0x01}
	owner := roost.Address{0x0a}
	pending := math.HexOrDecimal256(*big.NewInt(49))
	expected := &stakes.Stake{
		AssetID:     id,
		Staked:      true,
		Owner:       &owner,
		DepositedAt: 1000,
		SettledAt:   1000,
		Pending:     &pending,
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stakes/"+id.String(), r.URL.Path)

		stakeBytes, _ := json.Marshal(expected)
		w.Write(stakeBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	stake, err := client.GetStake(&id)

	assert.NoError(t, err)
	assert.Equal(t, expected, stake)
}

func TestClient_DepositStake(t *testing.T) {
	id := roost.Bytes32{0x01}
	caller := roost.Address{0x0a}
	amount := math.HexOrDecimal256(*new(big.Int))
	expected := &stakes.Receipt{Seq: 1, Time: 1000, Amount: &amount}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stakes", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req stakes.DepositRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, id, req.AssetID)
		assert.Equal(t, caller, req.Caller)

		receiptBytes, _ := json.Marshal(expected)
		w.Write(receiptBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	receipt, err := client.DepositStake(caller, id)

	assert.NoError(t, err)
	assert.Equal(t, expected, receipt)
}

func TestClient_SettleStake(t *testing.T) {
	id := roost.Bytes32{0x01}
	caller := roost.Address{0x0a}
	amount := math.HexOrDecimal256(*big.NewInt(49))
	expected := &stakes.Receipt{Seq: 2, Time: 2000, Amount: &amount}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stakes/"+id.String()+"/settle", r.URL.Path)

		receiptBytes, _ := json.Marshal(expected)
		w.Write(receiptBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	receipt, err := client.SettleStake(caller, id)

	assert.NoError(t, err)
	assert.Equal(t, expected, receipt)
}

func TestClient_WithdrawStake(t *testing.T) {
	id := roost.Bytes32{0x01}
	caller := roost.Address{0x0a}
	amount := math.HexOrDecimal256(*new(big.Int))
	expected := &stakes.Receipt{Seq: 3, Time: 3000, Amount: &amount}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stakes/"+id.String()+"/withdraw", r.URL.Path)

		receiptBytes, _ := json.Marshal(expected)
		w.Write(receiptBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	receipt, err := client.WithdrawStake(caller, id)

	assert.NoError(t, err)
	assert.Equal(t, expected, receipt)
}

func TestClient_GetSchedule(t *testing.T) {
	expected := []schedules.JSONSegment{
		{StartDay: 0, EndDay: 7, FlatRate: 7},
		{StartDay: 7, EndDay: 14, Slope: 1, Ramp: true},
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedules", r.URL.Path)

		segmentBytes, _ := json.Marshal(expected)
		w.Write(segmentBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	segments, err := client.GetSchedule()

	assert.NoError(t, err)
	assert.Equal(t, expected, segments)
}

func TestClient_GetScheduleCount(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedules/count", r.URL.Path)

		w.Write([]byte(`{"count": 4}`))
	}))
	defer ts.Close()

	client := New(ts.URL)
	count, err := client.GetScheduleCount()

	assert.NoError(t, err)
	assert.Equal(t, uint32(4), count)
}

func TestClient_GetAsset(t *testing.T) {
	id := roost.Bytes32{0x01}
	owner := roost.Address{0x0a}
	expected := &assets.Asset{
		AssetID: id,
		Minted:  true,
		Owner:   &owner,
		Staked:  false,
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assets/"+id.String(), r.URL.Path)

		assetBytes, _ := json.Marshal(expected)
		w.Write(assetBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	asset, err := client.GetAsset(&id)

	assert.NoError(t, err)
	assert.Equal(t, expected, asset)
}

func TestClient_GetRewardBalance(t *testing.T) {
	addr := roost.Address{0x0a}
	balance := math.HexOrDecimal256(*big.NewInt(49))
	expected := &rewards.Balance{Address: addr, Balance: &balance}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rewards/"+addr.String(), r.URL.Path)

		balanceBytes, _ := json.Marshal(expected)
		w.Write(balanceBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	res, err := client.GetRewardBalance(&addr)

	assert.NoError(t, err)
	assert.Equal(t, expected, res)
}

func TestClient_FilterEvents(t *testing.T) {
	req := &events.EventFilter{}
	expected := []events.FilteredEvent{{
		Seq:  1,
		Time: 1000,
		Kind: "deposit",
	}}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)

		eventBytes, _ := json.Marshal(expected)
		w.Write(eventBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	fes, err := client.FilterEvents(req)

	assert.NoError(t, err)
	assert.Equal(t, expected, fes)
}

func TestClient_GetHealth(t *testing.T) {
	expected := &health.Status{
		Healthy:       false,
		HeadSeq:       7,
		HeadTime:      1000,
		UptimeSeconds: 60,
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)

		// an unhealthy node reports over a 503
		w.WriteHeader(http.StatusServiceUnavailable)
		statusBytes, _ := json.Marshal(expected)
		w.Write(statusBytes)
	}))
	defer ts.Close()

	client := New(ts.URL)
	status, err := client.GetHealth()

	assert.NoError(t, err)
	assert.Equal(t, expected, status)
}

func TestClient_Errors(t *testing.T) {
	id := roost.Bytes32{0x01}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "asset not staked or caller is not the owner", http.StatusForbidden)
	}))
	defer ts.Close()

	client := New(ts.URL)
	_, err := client.SettleStake(roost.Address{0x0a}, id)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNot200Status)
	assert.Contains(t, err.Error(), "asset not staked")
}

func TestClient_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := New(ts.URL)
	_, err := client.GetSchedule()

	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClient_RawHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anything", r.URL.Path)
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	client := New(ts.URL)

	body, status, err := client.RawHTTPGet("/anything")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []byte("ok"), body)

	body, status, err = client.RawHTTPPost("/anything", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []byte("ok"), body)
}
