// Copyright (c) 2025 The Roost developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Segment is one piece of the reward schedule. Start and End are whole-day
// offsets from the start of a deposit's accrual, End exclusive. FlatRate is
// the per-day reward of flat segments and the base rate of ramp segments.
// RampSlope is the per-day rate increase of ramp segments and is ignored
// when Ramp is unset. Rates may be negative.
type Segment struct {
	Start     uint32
	End       uint32
	FlatRate  int64
	RampSlope int64
	Ramp      bool
}

// segmentStorage is the stored form. Rates are kept as their two's-complement
// bit patterns since rlp cannot carry negative integers.
type segmentStorage struct {
	Start     uint32
	End       uint32
	FlatRate  uint64
	RampSlope uint64
	Ramp      bool
}

func (s *Segment) IsEmpty() bool {
	return s.Start == 0 && s.End == 0 && s.FlatRate == 0 && s.RampSlope == 0 && !s.Ramp
}

// Encode implements state.StorageEncoder.
func (s *Segment) Encode() ([]byte, error) {
	if s.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(&segmentStorage{
		Start:     s.Start,
		End:       s.End,
		FlatRate:  uint64(s.FlatRate),
		RampSlope: uint64(s.RampSlope),
		Ramp:      s.Ramp,
	})
}

// Decode implements state.StorageDecoder.
func (s *Segment) Decode(data []byte) error {
	if len(data) == 0 {
		*s = Segment{}
		return nil
	}
	var stored segmentStorage
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return err
	}
	*s = Segment{
		Start:     stored.Start,
		End:       stored.End,
		FlatRate:  int64(stored.FlatRate),
		RampSlope: int64(stored.RampSlope),
		Ramp:      stored.Ramp,
	}
	return nil
}
