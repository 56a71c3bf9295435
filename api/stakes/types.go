// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/roost"
)

// Stake is the client view of one asset's custody record. An asset that
// is not staked answers with Staked false and nothing else.
type Stake struct {
	AssetID     roost.Bytes32         `json:"assetId"`
	Staked      bool                  `json:"staked"`
	Owner       *roost.Address        `json:"owner,omitempty"`
	DepositedAt uint64                `json:"depositedAt,omitempty"`
	SettledAt   uint64                `json:"settledAt,omitempty"`
	Pending     *math.HexOrDecimal256 `json:"pending,omitempty"`
}

// DepositRequest asks to lock an asset into custody.
type DepositRequest struct {
	AssetID roost.Bytes32 `json:"assetId"`
	Caller  roost.Address `json:"caller"`
}

// CallerRequest carries the acting principal of a settle or withdraw.
type CallerRequest struct {
	Caller roost.Address `json:"caller"`
}

// Receipt reports the committed journal entry of a mutation.
type Receipt struct {
	Seq    uint64                `json:"seq"`
	Time   uint64                `json:"time"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func receiptOf(entry *ledger.Entry) *Receipt {
	amount := math.HexOrDecimal256(*entry.Amount)
	return &Receipt{
		Seq:    entry.Seq,
		Time:   entry.Time,
		Amount: &amount,
	}
}
