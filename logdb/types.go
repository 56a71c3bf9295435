// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/vault/schedule"
)

// Event kinds mirrored from the journal.
const (
	KindGenesis  = "genesis"
	KindDeposit  = "deposit"
	KindSettle   = "settle"
	KindWithdraw = "withdraw"
	KindSchedule = "schedule"
)

// Event is one committed ledger operation stored in the index.
type Event struct {
	Seq      uint64
	Time     uint64
	Kind     string
	AssetID  roost.Bytes32
	Owner    roost.Address
	Amount   *big.Int
	Segments []schedule.Segment
}

// Range is a closed interval. To below From leaves the interval open ended.
type Range struct {
	From uint64
	To   uint64
}

// Options limit the result window.
type Options struct {
	Offset uint64
	Limit  uint64
}

// Order defines the result order of a filter.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Filter selects events. Nil fields match everything.
type Filter struct {
	Kinds     []string
	AssetID   *roost.Bytes32
	Owner     *roost.Address
	SeqRange  *Range
	TimeRange *Range
	Options   *Options
	Order     Order
}
