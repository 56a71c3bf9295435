// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"

	eth_math "github.com/ethereum/go-ethereum/common/math"

	"github.com/roostlabs/roost/api/schedules"
	"github.com/roostlabs/roost/logdb"
	"github.com/roostlabs/roost/roost"
)

// FilteredEvent is the json form of one indexed journal entry.
type FilteredEvent struct {
	Seq      uint64                    `json:"seq"`
	Time     uint64                    `json:"time"`
	Kind     string                    `json:"kind"`
	AssetID  *roost.Bytes32            `json:"assetId,omitempty"`
	Owner    *roost.Address            `json:"owner,omitempty"`
	Amount   *eth_math.HexOrDecimal256 `json:"amount,omitempty"`
	Segments []schedules.JSONSegment   `json:"segments,omitempty"`
}

func convertEvent(event *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Seq:  event.Seq,
		Time: event.Time,
		Kind: event.Kind,
	}
	if !event.AssetID.IsZero() {
		id := event.AssetID
		fe.AssetID = &id
	}
	if !event.Owner.IsZero() {
		owner := event.Owner
		fe.Owner = &owner
	}
	if event.Amount != nil && event.Amount.Sign() != 0 {
		amount := eth_math.HexOrDecimal256(*event.Amount)
		fe.Amount = &amount
	}
	if len(event.Segments) > 0 {
		fe.Segments = schedules.ConvertSchedule(event.Segments)
	}
	return fe
}

type RangeType string

const (
	SeqRangeType  RangeType = "seq"
	TimeRangeType RangeType = "time"
)

type Range struct {
	Unit RangeType `json:"unit,omitempty"`
	From *uint64   `json:"from,omitempty"`
	To   *uint64   `json:"to,omitempty"`
}

func (r *Range) Validate() error {
	if r == nil {
		return nil
	}
	if r.Unit != "" && r.Unit != SeqRangeType && r.Unit != TimeRangeType {
		return fmt.Errorf("range.unit must be either 'seq' or 'time', got '%s'", r.Unit)
	}
	if r.From != nil && r.To != nil && *r.From > *r.To {
		return fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	return nil
}

type Options struct {
	Offset uint64 `json:"offset,omitempty"`
	Limit  uint64 `json:"limit,omitempty"`
}

type EventFilter struct {
	Kinds   []string       `json:"kinds,omitempty"`
	AssetID *roost.Bytes32 `json:"assetId,omitempty"`
	Owner   *roost.Address `json:"owner,omitempty"`
	Range   *Range         `json:"range,omitempty"`
	Options *Options       `json:"options,omitempty"`
	Order   logdb.Order    `json:"order,omitempty"`
}

func convertFilter(ef *EventFilter) *logdb.Filter {
	f := &logdb.Filter{
		Kinds:   ef.Kinds,
		AssetID: ef.AssetID,
		Owner:   ef.Owner,
		Order:   ef.Order,
	}
	if ef.Options != nil {
		f.Options = &logdb.Options{
			Offset: ef.Options.Offset,
			Limit:  ef.Options.Limit,
		}
	}
	if r := ef.Range; r != nil && (r.From != nil || r.To != nil) {
		// sqlite integers are signed, so the open upper bound caps at MaxInt64
		rng := logdb.Range{From: 0, To: math.MaxInt64}
		if r.From != nil {
			rng.From = *r.From
		}
		if r.To != nil {
			rng.To = *r.To
		}
		if r.Unit == TimeRangeType {
			f.TimeRange = &rng
		} else {
			f.SeqRange = &rng
		}
	}
	return f
}
