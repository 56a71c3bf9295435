// Copyright (c) 2025 The Roost developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual computes staking rewards from elapsed whole days and a
// segment schedule. It is pure arithmetic, callers derive the day count and
// load the schedule.
package accrual

import (
	"math/big"

	"github.com/roostlabs/roost/vault/schedule"
)

var two = big.NewInt(2)

// Accrue returns the total reward accrued over elapsedDays whole days.
//
// Segments are walked in order. A segment consumes the days its [Start, End)
// window overlaps with [0, elapsedDays). Flat segments contribute
// days * FlatRate. Ramp segments rate at FlatRate + day * RampSlope and
// contribute the trapezoid between the entry rate and the exit rate, days
// times the half-sum of the two, with the division truncating toward zero.
//
// The walk stops once a segment starts at or beyond elapsedDays, or once the
// consumed days exhaust elapsedDays.
func Accrue(segments []schedule.Segment, elapsedDays uint32) *big.Int {
	total := new(big.Int)
	if elapsedDays == 0 {
		return total
	}

	budget := int64(elapsedDays)
	for _, seg := range segments {
		if elapsedDays <= seg.Start {
			break
		}
		var days uint64
		if elapsedDays > seg.End {
			days = uint64(seg.End - seg.Start)
		} else {
			days = uint64(elapsedDays - seg.Start)
		}
		if days == 0 {
			continue
		}

		if seg.Ramp {
			entry := rateAt(&seg, uint64(seg.Start))
			exit := rateAt(&seg, uint64(seg.Start)+days)
			sum := entry.Add(entry, exit)
			sum.Mul(sum, new(big.Int).SetUint64(days))
			sum.Quo(sum, two)
			total.Add(total, sum)
		} else {
			flat := big.NewInt(seg.FlatRate)
			total.Add(total, flat.Mul(flat, new(big.Int).SetUint64(days)))
		}

		budget -= int64(days)
		if budget <= 0 {
			break
		}
	}
	return total
}

// rateAt returns the ramp rate on the given absolute day offset.
func rateAt(seg *schedule.Segment, day uint64) *big.Int {
	rate := new(big.Int).SetUint64(day)
	rate.Mul(rate, big.NewInt(seg.RampSlope))
	return rate.Add(rate, big.NewInt(seg.FlatRate))
}
