// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/state"
	"github.com/roostlabs/roost/storage"
)

// Address is the native address holding governance parameters.
var Address = roost.BytesToAddress([]byte("roost-params"))

// NameLockPeriod is the config slot name of the withdrawal lock period.
const NameLockPeriod = "lock-period"

// Params binds the governance parameter slots.
type Params struct {
	ctx        *storage.Context
	admin      *storage.Address
	lockPeriod *storage.ConfigVariable
}

// New creates a params binder over the given state.
func New(state *state.State) *Params {
	ctx := storage.NewContext(Address, state)
	return &Params{
		ctx:        ctx,
		admin:      storage.NewAddress(ctx, roost.KeyScheduleAdmin),
		lockPeriod: storage.NewConfigVariable(NameLockPeriod, uint32(roost.InitialLockPeriod)),
	}
}

// Get native way to get param.
func (p *Params) Get(key roost.Bytes32) (*big.Int, error) {
	var v big.Int
	if err := p.ctx.State().GetStructuredStorage(Address, key, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Set native way to set param.
func (p *Params) Set(key roost.Bytes32, value *big.Int) error {
	return p.ctx.State().SetStructuredStorage(Address, key, value)
}

// ScheduleAdmin returns the address allowed to replace the reward schedule.
func (p *Params) ScheduleAdmin() (roost.Address, error) {
	return p.admin.Get()
}

// SetScheduleAdmin grants schedule governance to the given address.
func (p *Params) SetScheduleAdmin(addr roost.Address) {
	p.admin.Set(&addr)
}

// LockPeriod returns the withdrawal lock period in seconds.
func (p *Params) LockPeriod() uint64 {
	p.lockPeriod.Override(p.ctx)
	return uint64(p.lockPeriod.Get())
}

// SetLockPeriod overrides the withdrawal lock period, in seconds.
func (p *Params) SetLockPeriod(seconds uint64) error {
	return p.Set(roost.KeyLockPeriod, new(big.Int).SetUint64(seconds))
}
