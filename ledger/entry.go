// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/roostlabs/roost/logdb"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/vault/schedule"
)

// Entry kinds.
const (
	KindGenesis  = "genesis"
	KindDeposit  = "deposit"
	KindSettle   = "settle"
	KindWithdraw = "withdraw"
	KindSchedule = "schedule"
)

// Entry is one committed ledger operation.
// Seq 0 is always the genesis entry.
type Entry struct {
	Seq      uint64
	Time     uint64
	Kind     string
	AssetID  roost.Bytes32
	Owner    roost.Address
	Amount   *big.Int
	Segments []schedule.Segment
}

// entryBody carries segments pre-encoded, since rlp cannot hold signed rates.
type entryBody struct {
	Seq      uint64
	Time     uint64
	Kind     string
	AssetID  roost.Bytes32
	Owner    roost.Address
	Amount   *big.Int
	Segments [][]byte
}

// EncodeRLP implements rlp.Encoder.
func (e *Entry) EncodeRLP(w io.Writer) error {
	body := entryBody{
		Seq:     e.Seq,
		Time:    e.Time,
		Kind:    e.Kind,
		AssetID: e.AssetID,
		Owner:   e.Owner,
		Amount:  e.Amount,
	}
	if body.Amount == nil {
		body.Amount = new(big.Int)
	}
	for i := range e.Segments {
		blob, err := e.Segments[i].Encode()
		if err != nil {
			return err
		}
		body.Segments = append(body.Segments, blob)
	}
	return rlp.Encode(w, &body)
}

// DecodeRLP implements rlp.Decoder.
func (e *Entry) DecodeRLP(s *rlp.Stream) error {
	var body entryBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	var segs []schedule.Segment
	if len(body.Segments) > 0 {
		segs = make([]schedule.Segment, len(body.Segments))
		for i, blob := range body.Segments {
			if err := segs[i].Decode(blob); err != nil {
				return err
			}
		}
	}
	*e = Entry{
		Seq:      body.Seq,
		Time:     body.Time,
		Kind:     body.Kind,
		AssetID:  body.AssetID,
		Owner:    body.Owner,
		Amount:   body.Amount,
		Segments: segs,
	}
	return nil
}

// toEvent converts the entry for the sqlite index.
func (e *Entry) toEvent() *logdb.Event {
	return &logdb.Event{
		Seq:      e.Seq,
		Time:     e.Time,
		Kind:     e.Kind,
		AssetID:  e.AssetID,
		Owner:    e.Owner,
		Amount:   e.Amount,
		Segments: e.Segments,
	}
}
