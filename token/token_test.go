// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roostlabs/roost/lvldb"
	"github.com/roostlabs/roost/state"
	"github.com/roostlabs/roost/test/datagen"
)

func newToken() *Token {
	db, _ := lvldb.NewMem()
	return New(state.New(db))
}

func TestMint(t *testing.T) {
	tok := newToken()
	addr := datagen.RandAddress()

	balance, err := tok.BalanceOf(addr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), balance)

	require.NoError(t, tok.Mint(addr, big.NewInt(100)))
	require.NoError(t, tok.Mint(addr, big.NewInt(50)))

	balance, err = tok.BalanceOf(addr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150), balance)

	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150), supply)
}

func TestMintRejectsNonPositive(t *testing.T) {
	tok := newToken()
	addr := datagen.RandAddress()

	assert.Equal(t, ErrNonPositiveAmount, tok.Mint(addr, big.NewInt(0)))
	assert.Equal(t, ErrNonPositiveAmount, tok.Mint(addr, big.NewInt(-1)))
	assert.Equal(t, ErrNonPositiveAmount, tok.Mint(addr, nil))

	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Zero(t, supply.Sign())
}

func TestSupplyAcrossHolders(t *testing.T) {
	tok := newToken()
	a := datagen.RandAddress()
	b := datagen.RandAddress()

	require.NoError(t, tok.Mint(a, big.NewInt(7)))
	require.NoError(t, tok.Mint(b, big.NewInt(35)))

	balance, err := tok.BalanceOf(a)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), balance)

	balance, err = tok.BalanceOf(b)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(35), balance)

	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), supply)
}
