// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roostlabs/roost/asset"
	"github.com/roostlabs/roost/genesis"
	"github.com/roostlabs/roost/lvldb"
	"github.com/roostlabs/roost/params"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/state"
	"github.com/roostlabs/roost/storage"
	"github.com/roostlabs/roost/vault"
	"github.com/roostlabs/roost/vault/schedule"
)

const rawCustomGenesis = `{
	"launchTime": 1735689600,
	"scheduleAdmin": "0x62fa853cefc28d6b8a14768983b3b2b42c5be3f8",
	"lockPeriodDays": "0x2",
	"assets": [
		{
			"id": "0x736f6d65637573746f6d6173736574000000000000000000000000000000beef",
			"owner": "0xcf130b42ae33c5531277b4b7c0f1d994b8732957"
		}
	],
	"schedule": [
		{"startDay": 0, "endDay": "0xe", "flatRate": 5},
		{"startDay": "0xe", "endDay": 28, "flatRate": 5, "slope": 2, "ramp": true}
	]
}`

func TestNewCustomNet(t *testing.T) {
	var gen genesis.CustomGenesis
	require.NoError(t, json.Unmarshal([]byte(rawCustomGenesis), &gen))

	gene, err := genesis.NewCustomNet(&gen)
	require.NoError(t, err)
	assert.Equal(t, "customnet", gene.Name())

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(db)
	require.NoError(t, gene.Build(st))

	par := params.New(st)
	admin, err := par.ScheduleAdmin()
	require.NoError(t, err)
	assert.Equal(t, roost.MustParseAddress("0x62fa853cefc28d6b8a14768983b3b2b42c5be3f8"), admin)
	assert.Equal(t, 2*roost.DaySeconds, par.LockPeriod())

	owner, err := asset.New(st).OwnerOf(gen.Assets[0].ID)
	require.NoError(t, err)
	assert.Equal(t, gen.Assets[0].Owner, owner)

	segments, err := schedule.New(storage.NewContext(vault.Address, st)).List()
	require.NoError(t, err)
	assert.Equal(t, []schedule.Segment{
		{Start: 0, End: 14, FlatRate: 5},
		{Start: 14, End: 28, FlatRate: 5, RampSlope: 2, Ramp: true},
	}, segments)
}

func TestNewCustomNetRejectsBadInputs(t *testing.T) {
	admin := roost.MustParseAddress("0x62fa853cefc28d6b8a14768983b3b2b42c5be3f8")

	_, err := genesis.NewCustomNet(&genesis.CustomGenesis{LaunchTime: 1})
	assert.ErrorContains(t, err, "scheduleAdmin")

	_, err = genesis.NewCustomNet(&genesis.CustomGenesis{
		LaunchTime:    1,
		ScheduleAdmin: &admin,
		Assets:        []genesis.AssetGrant{{}},
	})
	assert.ErrorContains(t, err, "asset id")
}

func TestCustomNetIDDiffers(t *testing.T) {
	var gen genesis.CustomGenesis
	require.NoError(t, json.Unmarshal([]byte(rawCustomGenesis), &gen))

	first, err := genesis.NewCustomNet(&gen)
	require.NoError(t, err)

	// same inputs give the same ID
	second, err := genesis.NewCustomNet(&gen)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())

	// any input change moves the ID
	gen.LaunchTime++
	changed, err := genesis.NewCustomNet(&gen)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), changed.ID())

	assert.NotEqual(t, first.ID(), genesis.NewDevnet().ID())
}
