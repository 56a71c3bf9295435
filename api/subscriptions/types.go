// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/roostlabs/roost/api/schedules"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/roost"
)

// LedgerMessage is pushed to subscribers for every committed journal entry.
type LedgerMessage struct {
	Seq      uint64                  `json:"seq"`
	Time     uint64                  `json:"time"`
	Kind     string                  `json:"kind"`
	AssetID  *roost.Bytes32          `json:"assetId,omitempty"`
	Owner    *roost.Address          `json:"owner,omitempty"`
	Amount   *math.HexOrDecimal256   `json:"amount,omitempty"`
	Segments []schedules.JSONSegment `json:"segments,omitempty"`
}

func convertEntry(entry *ledger.Entry) LedgerMessage {
	msg := LedgerMessage{
		Seq:  entry.Seq,
		Time: entry.Time,
		Kind: entry.Kind,
	}
	if !entry.AssetID.IsZero() {
		id := entry.AssetID
		msg.AssetID = &id
	}
	if !entry.Owner.IsZero() {
		owner := entry.Owner
		msg.Owner = &owner
	}
	if entry.Amount != nil && entry.Amount.Sign() != 0 {
		amount := math.HexOrDecimal256(*entry.Amount)
		msg.Amount = &amount
	}
	if len(entry.Segments) > 0 {
		msg.Segments = schedules.ConvertSchedule(entry.Segments)
	}
	return msg
}
