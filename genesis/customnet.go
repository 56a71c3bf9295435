// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"errors"

	"github.com/roostlabs/roost/asset"
	"github.com/roostlabs/roost/params"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/state"
	"github.com/roostlabs/roost/storage"
	"github.com/roostlabs/roost/vault"
	"github.com/roostlabs/roost/vault/schedule"
)

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	launchTime := gen.LaunchTime

	if gen.ScheduleAdmin == nil || gen.ScheduleAdmin.IsZero() {
		return nil, errors.New("scheduleAdmin must be set")
	}
	admin := *gen.ScheduleAdmin

	lockPeriod := roost.InitialLockPeriod
	if gen.LockPeriodDays != nil {
		lockPeriod = uint64(*gen.LockPeriodDays) * roost.DaySeconds
	}

	segments := make([]schedule.Segment, 0, len(gen.Schedule))
	for _, seg := range gen.Schedule {
		segments = append(segments, schedule.Segment{
			Start:     uint32(seg.StartDay),
			End:       uint32(seg.EndDay),
			FlatRate:  seg.FlatRate,
			RampSlope: seg.Slope,
			Ramp:      seg.Ramp,
		})
	}

	for _, grant := range gen.Assets {
		if grant.ID.IsZero() {
			return nil, errors.New("asset id must be set")
		}
		if grant.Owner.IsZero() {
			return nil, errors.New("asset owner must be set")
		}
	}

	builder := new(Builder).
		Timestamp(launchTime).
		State(func(state *state.State) error {
			par := params.New(state)
			par.SetScheduleAdmin(admin)
			if err := par.SetLockPeriod(lockPeriod); err != nil {
				return err
			}

			registry := asset.New(state)
			for _, grant := range gen.Assets {
				if err := registry.Mint(grant.ID, grant.Owner); err != nil {
					return err
				}
			}

			// a net may launch without a schedule, the admin installs one later
			if len(segments) > 0 {
				ctx := storage.NewContext(vault.Address, state)
				return schedule.New(ctx).Replace(segments)
			}
			return nil
		})

	id, err := buildID("customnet", launchTime, admin, lockPeriod, gen.Assets, segments)
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, "customnet"}, nil
}
