// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedules

import "github.com/roostlabs/roost/vault/schedule"

// JSONSegment mirrors one schedule segment on the wire.
type JSONSegment struct {
	StartDay uint32 `json:"startDay"`
	EndDay   uint32 `json:"endDay"`
	FlatRate int64  `json:"flatRate"`
	Slope    int64  `json:"slope"`
	Ramp     bool   `json:"ramp"`
}

func convertSegment(seg *schedule.Segment) JSONSegment {
	return JSONSegment{
		StartDay: seg.Start,
		EndDay:   seg.End,
		FlatRate: seg.FlatRate,
		Slope:    seg.RampSlope,
		Ramp:     seg.Ramp,
	}
}

// ConvertSchedule converts segments for a JSON response.
func ConvertSchedule(segments []schedule.Segment) []JSONSegment {
	out := make([]JSONSegment, 0, len(segments))
	for i := range segments {
		out = append(out, convertSegment(&segments[i]))
	}
	return out
}

// ToSegments converts wire segments back to schedule segments.
func ToSegments(jsonSegments []JSONSegment) []schedule.Segment {
	out := make([]schedule.Segment, 0, len(jsonSegments))
	for _, js := range jsonSegments {
		out = append(out, schedule.Segment{
			Start:     js.StartDay,
			End:       js.EndDay,
			FlatRate:  js.FlatRate,
			RampSlope: js.Slope,
			Ramp:      js.Ramp,
		})
	}
	return out
}
