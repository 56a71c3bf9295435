// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/roostlabs/roost/roost"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	LaunchTime     uint64           `json:"launchTime"`
	ScheduleAdmin  *roost.Address   `json:"scheduleAdmin"`
	LockPeriodDays *HexOrDecimal64  `json:"lockPeriodDays"`
	Assets         []AssetGrant     `json:"assets"`
	Schedule       []SegmentContent `json:"schedule"`
}

// SegmentContent is one schedule segment of a custom genesis. Days accept
// hex or decimal, rates are plain signed numbers.
type SegmentContent struct {
	StartDay HexOrDecimal64 `json:"startDay"`
	EndDay   HexOrDecimal64 `json:"endDay"`
	FlatRate int64          `json:"flatRate"`
	Slope    int64          `json:"slope,omitempty"`
	Ramp     bool           `json:"ramp,omitempty"`
}

// HexOrDecimal64 marshals uint64 as hex or decimal.
// Copied from go-ethereum/common/math and implement json.Marshaler
type HexOrDecimal64 math.HexOrDecimal64

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal64) UnmarshalJSON(input []byte) error {
	var hex string
	if err := json.Unmarshal(input, &hex); err != nil {
		return (*math.HexOrDecimal64)(i).UnmarshalText(input)
	}
	num, ok := math.ParseUint64(hex)
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	*i = HexOrDecimal64(num)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (i HexOrDecimal64) MarshalJSON() ([]byte, error) {
	text, err := math.HexOrDecimal64(i).MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}
