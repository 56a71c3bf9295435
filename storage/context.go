// Copyright (c) 2025 The Roost developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/state"
)

// Context binds typed slot accessors to the owning native address.
type Context struct {
	address roost.Address
	state   *state.State
}

func NewContext(address roost.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() roost.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
