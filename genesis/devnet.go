// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"sync/atomic"

	"github.com/roostlabs/roost/asset"
	"github.com/roostlabs/roost/params"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/state"
	"github.com/roostlabs/roost/storage"
	"github.com/roostlabs/roost/vault"
	"github.com/roostlabs/roost/vault/schedule"
)

var devAccounts atomic.Value

// DevAccounts returns the fixed accounts of the dev network. The first one
// doubles as the schedule admin.
func DevAccounts() []roost.Address {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]roost.Address)
	}

	var accs []roost.Address
	addrs := []string{
		"0xf2e7617c45c42967fde0514b5aa6bba56e3e11dd",
		"0x1b9e7f0deb1059d85d2b0e1a3a6cd882c01ad9ed",
		"0x793a88ad77e6ef1d09ed53481b1db07f6e7e2d76",
		"0x62fa853cefc28d6b8a14768983b3b2b42c5be3f8",
		"0xcf130b42ae33c5531277b4b7c0f1d994b8732957",
		"0xa05f0c254a09eb3db3258c1653aa9d84c7eeb106",
		"0x9e20edb9953fce32e794c11d08b7b394aa4d2bc0",
		"0x0bd7b06debd1522e75e1322aa740de1e4b1c7e08",
		"0x57f0d9e40addd0c9d14f1a792f3c1677e0afca3d",
		"0x361277d1b27504f36a3b33d3a52d1f8270331b8c",
	}
	for _, str := range addrs {
		accs = append(accs, roost.MustParseAddress(str))
	}
	devAccounts.Store(accs)
	return accs
}

// DevAssets returns the assets pre-minted on the dev network, one per dev
// account in order.
func DevAssets() []AssetGrant {
	accs := DevAccounts()
	grants := make([]AssetGrant, 0, len(accs))
	for i, acc := range accs {
		grants = append(grants, AssetGrant{
			ID:    roost.Blake2b([]byte(fmt.Sprintf("roost-dev-asset-%d", i))),
			Owner: acc,
		})
	}
	return grants
}

// DevSchedule is the schedule of the dev network, a flat week, a ramp week,
// a flat week at the doubled rate and a final ramp week.
var DevSchedule = []schedule.Segment{
	{Start: 0, End: 7, FlatRate: 7},
	{Start: 7, End: 14, RampSlope: 1, Ramp: true},
	{Start: 14, End: 21, FlatRate: 14},
	{Start: 21, End: 28, RampSlope: 1, Ramp: true},
}

// NewDevnet create genesis for the dev network.
func NewDevnet() *Genesis {
	launchTime := uint64(1735689600) // 'Wed Jan 01 2025 00:00:00 GMT+0000'

	admin := DevAccounts()[0]
	grants := DevAssets()

	builder := new(Builder).
		Timestamp(launchTime).
		State(func(state *state.State) error {
			par := params.New(state)
			par.SetScheduleAdmin(admin)
			if err := par.SetLockPeriod(roost.InitialLockPeriod); err != nil {
				return err
			}

			registry := asset.New(state)
			for _, grant := range grants {
				if err := registry.Mint(grant.ID, grant.Owner); err != nil {
					return err
				}
			}

			ctx := storage.NewContext(vault.Address, state)
			return schedule.New(ctx).Replace(DevSchedule)
		})

	id, err := buildID("devnet", launchTime, admin, roost.InitialLockPeriod, grants, DevSchedule)
	if err != nil {
		panic(err)
	}
	return &Genesis{builder, id, "devnet"}
}
