// Copyright (c) 2025 The Roost developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"

	"github.com/roostlabs/roost/log"
	"github.com/roostlabs/roost/roost"
)

var logger = log.WithContext("pkg", "storage")

// ConfigVariable is an uint32 configuration value with a built-in default,
// overridable through its storage slot.
type ConfigVariable struct {
	slot        roost.Bytes32
	name        string
	value       uint32
	initialised bool
}

func NewConfigVariable(name string, defaultValue uint32) *ConfigVariable {
	return &ConfigVariable{
		slot:        roost.BytesToBytes32([]byte(name)),
		name:        name,
		value:       defaultValue,
		initialised: false,
	}
}

func (c *ConfigVariable) Get() uint32 {
	return c.value
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() roost.Bytes32 {
	return c.slot
}

func (c *ConfigVariable) Override(ctx *Context) {
	if c.initialised { // early return to prevent subsequent reads
		return
	}
	storage, err := ctx.state.GetStorage(ctx.address, c.slot)
	if err != nil {
		logger.Warn("failed to read config value", "slot", c.Name(), "error", err)
		return
	}
	num := new(big.Int).SetBytes(storage.Bytes())

	c.initialised = true

	if num.Uint64() != 0 {
		c.value = uint32(num.Uint64())
		logger.Debug("override found new config value", "slot", c.Name(), "value", c.Get())
	} else {
		logger.Debug("using default config value", "slot", c.Name(), "value", c.Get())
	}
}
