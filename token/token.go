// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token keeps the fungible reward balances minted by the vault.
package token

import (
	"errors"
	"math/big"

	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/state"
	"github.com/roostlabs/roost/storage"
)

// Address is the native address holding reward balances.
var Address = roost.BytesToAddress([]byte("roost-rewards"))

var (
	slotBalances = roost.BytesToBytes32([]byte("balances"))
	slotSupply   = roost.BytesToBytes32([]byte("total-supply"))
)

var ErrNonPositiveAmount = errors.New("mint amount must be positive")

// Token is the reward balance ledger. Supply only ever grows,
// rewards are minted on settlement and never burned.
type Token struct {
	balances *storage.Mapping[roost.Address, *big.Int]
	supply   *storage.Counter
}

// New creates the token binder over the given state.
func New(state *state.State) *Token {
	ctx := storage.NewContext(Address, state)
	return &Token{
		balances: storage.NewMapping[roost.Address, *big.Int](ctx, slotBalances),
		supply:   storage.NewCounter(ctx, slotSupply),
	}
}

// Mint credits the amount to the given address and grows total supply.
func (t *Token) Mint(to roost.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrNonPositiveAmount
	}
	balance, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, new(big.Int).Add(balance, amount)); err != nil {
		return err
	}
	return t.supply.Add(amount)
}

// BalanceOf returns the reward balance of the address.
func (t *Token) BalanceOf(addr roost.Address) (*big.Int, error) {
	balance, err := t.balances.Get(addr)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return new(big.Int), nil
	}
	return balance, nil
}

// TotalSupply returns the total minted amount.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.supply.Get()
}
