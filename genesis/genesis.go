// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/state"
	"github.com/roostlabs/roost/vault/schedule"
)

// Genesis to build the initial ledger state.
type Genesis struct {
	builder *Builder
	id      roost.Bytes32
	name    string
}

// Build installs the genesis state.
func (g *Genesis) Build(state *state.State) error {
	return g.builder.Build(state)
}

// ID returns the genesis ID. Instance dirs are keyed by it, two ledgers
// share history only if they share the ID.
func (g *Genesis) ID() roost.Bytes32 {
	return g.id
}

// Name returns the network name.
func (g *Genesis) Name() string {
	return g.name
}

// Timestamp returns the launch time.
func (g *Genesis) Timestamp() uint64 {
	return g.builder.timestamp
}

// AssetGrant mints an asset to its initial owner at genesis.
type AssetGrant struct {
	ID    roost.Bytes32 `json:"id"`
	Owner roost.Address `json:"owner"`
}

// idContent collects everything that shapes the genesis state. Rates of
// schedule segments are pre-encoded since rlp cannot carry signed integers.
type idContent struct {
	Name       string
	LaunchTime uint64
	Admin      roost.Address
	LockPeriod uint64
	Grants     []AssetGrant
	Segments   [][]byte
}

// buildID derives the genesis ID from the build inputs.
func buildID(name string, launchTime uint64, admin roost.Address, lockPeriod uint64, grants []AssetGrant, segments []schedule.Segment) (roost.Bytes32, error) {
	encoded := make([][]byte, 0, len(segments))
	for i := range segments {
		data, err := segments[i].Encode()
		if err != nil {
			return roost.Bytes32{}, err
		}
		encoded = append(encoded, data)
	}
	data, err := rlp.EncodeToBytes(&idContent{
		Name:       name,
		LaunchTime: launchTime,
		Admin:      admin,
		LockPeriod: lockPeriod,
		Grants:     grants,
		Segments:   encoded,
	})
	if err != nil {
		return roost.Bytes32{}, err
	}
	return roost.Blake2b(data), nil
}
