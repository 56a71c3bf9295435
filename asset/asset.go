// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package asset keeps the registry of stakeable assets and their owners.
package asset

import (
	"errors"
	"math/big"

	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/state"
	"github.com/roostlabs/roost/storage"
)

// Address is the native address holding the asset registry.
var Address = roost.BytesToAddress([]byte("roost-assets"))

var (
	slotOwners = roost.BytesToBytes32([]byte("owners"))
	slotTotal  = roost.BytesToBytes32([]byte("total-assets"))
)

var (
	ErrZeroID    = errors.New("zero asset id")
	ErrZeroOwner = errors.New("zero owner address")
	ErrExists    = errors.New("asset already minted")
	ErrNotOwner  = errors.New("sender is not the asset owner")
)

// Registry tracks which address holds each asset.
type Registry struct {
	owners *storage.Mapping[roost.Bytes32, roost.Address]
	total  *storage.Counter
}

// New creates the registry binder over the given state.
func New(state *state.State) *Registry {
	ctx := storage.NewContext(Address, state)
	return &Registry{
		owners: storage.NewMapping[roost.Bytes32, roost.Address](ctx, slotOwners),
		total:  storage.NewCounter(ctx, slotTotal),
	}
}

// Mint registers a new asset under the given owner.
func (r *Registry) Mint(id roost.Bytes32, owner roost.Address) error {
	if id.IsZero() {
		return ErrZeroID
	}
	if owner.IsZero() {
		return ErrZeroOwner
	}
	current, err := r.owners.Get(id)
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return ErrExists
	}
	if err := r.owners.Set(id, owner); err != nil {
		return err
	}
	return r.total.Add(big.NewInt(1))
}

// OwnerOf returns the current owner of the asset,
// or the zero address when the asset is unknown.
func (r *Registry) OwnerOf(id roost.Bytes32) (roost.Address, error) {
	return r.owners.Get(id)
}

// Transfer moves the asset from its current owner to another address.
func (r *Registry) Transfer(from, to roost.Address, id roost.Bytes32) error {
	if to.IsZero() {
		return ErrZeroOwner
	}
	owner, err := r.owners.Get(id)
	if err != nil {
		return err
	}
	if owner.IsZero() || owner != from {
		return ErrNotOwner
	}
	return r.owners.Set(id, to)
}

// Total returns the number of minted assets.
func (r *Registry) Total() (*big.Int, error) {
	return r.total.Get()
}
