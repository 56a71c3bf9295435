// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/roostlabs/roost/state"
)

// Builder helper to build genesis state.
type Builder struct {
	timestamp  uint64
	stateProcs []func(state *state.State) error
}

// Timestamp set the launch time.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process.
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build runs the state processes against the given state.
func (b *Builder) Build(state *state.State) error {
	for _, proc := range b.stateProcs {
		if err := proc(state); err != nil {
			return errors.Wrap(err, "state process")
		}
	}
	return nil
}
