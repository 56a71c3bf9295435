// Copyright (c) 2025 The Roost developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roostlabs/roost/asset"
	"github.com/roostlabs/roost/lvldb"
	"github.com/roostlabs/roost/params"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/state"
	"github.com/roostlabs/roost/storage"
	"github.com/roostlabs/roost/test/datagen"
	"github.com/roostlabs/roost/token"
	"github.com/roostlabs/roost/vault/schedule"
)

const genesisTime = uint64(1_700_000_000)

// day returns the timestamp n whole days after genesisTime.
func day(n uint32) uint64 {
	return genesisTime + uint64(n)*roost.DaySeconds
}

// devSchedule pays a flat week, a ramp week, a flat week at the higher rate
// and a final ramp week.
var devSchedule = []schedule.Segment{
	{Start: 0, End: 7, FlatRate: 7},
	{Start: 7, End: 14, RampSlope: 1, Ramp: true},
	{Start: 14, End: 21, FlatRate: 14},
	{Start: 21, End: 28, RampSlope: 1, Ramp: true},
}

type testEnv struct {
	t      *testing.T
	state  *state.State
	assets *asset.Registry
	tokens *token.Token
	params *params.Params
	vault  *Vault
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	st := state.New(db)
	env := &testEnv{
		t:      t,
		state:  st,
		assets: asset.New(st),
		tokens: token.New(st),
		params: params.New(st),
	}
	env.vault = New(st, env.assets, env.tokens, env.params)
	return env
}

// withSchedule stores the schedule directly, bypassing admin gating.
func (env *testEnv) withSchedule(segments []schedule.Segment) *testEnv {
	ctx := storage.NewContext(Address, env.state)
	require.NoError(env.t, schedule.New(ctx).Replace(segments))
	return env
}

func (env *testEnv) mintAsset(owner roost.Address) roost.Bytes32 {
	id := datagen.RandomHash()
	require.NoError(env.t, env.assets.Mint(id, owner))
	return id
}

func (env *testEnv) balance(addr roost.Address) *big.Int {
	balance, err := env.tokens.BalanceOf(addr)
	require.NoError(env.t, err)
	return balance
}

func (env *testEnv) assetOwner(id roost.Bytes32) roost.Address {
	owner, err := env.assets.OwnerOf(id)
	require.NoError(env.t, err)
	return owner
}

func (env *testEnv) totalStaked() *big.Int {
	staked, err := env.vault.TotalStaked()
	require.NoError(env.t, err)
	return staked
}
