// Copyright (c) 2025 The Roost developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"errors"
	"math/big"

	"github.com/roostlabs/roost/roost"
)

var errCounterUnderflow = errors.New("counter underflow")

// Counter is a wrapper for storage and retrieval of an uint256 quantity,
// similar to storing an uint256 in a smart contract.
// If the provided value exceeds 256 bits, it will be truncated to fit into roost.Bytes32.
type Counter struct {
	context *Context
	pos     roost.Bytes32
}

func NewCounter(context *Context, pos roost.Bytes32) *Counter {
	return &Counter{context: context, pos: pos}
}

func (c *Counter) Get() (*big.Int, error) {
	storage, err := c.context.state.GetStorage(c.context.address, c.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (c *Counter) Set(value *big.Int) {
	c.context.state.SetStorage(c.context.address, c.pos, roost.BytesToBytes32(value.Bytes()))
}

func (c *Counter) Add(value *big.Int) error {
	current, err := c.Get()
	if err != nil {
		return err
	}
	current.Add(current, value)
	if current.Sign() < 0 {
		return errCounterUnderflow
	}
	c.Set(current)
	return nil
}

func (c *Counter) Sub(value *big.Int) error {
	return c.Add(new(big.Int).Neg(value))
}
