// Copyright (c) 2025 The Roost developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault implements the stake lifecycle. Depositing locks an asset
// into vault custody and starts its accrual clock, settling mints the
// rewards accrued so far, withdrawing returns the asset once the lock
// period has passed. Rewards follow the stored segment schedule, which the
// schedule admin may replace at any time.
package vault

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/roostlabs/roost/log"
	"github.com/roostlabs/roost/params"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/state"
	"github.com/roostlabs/roost/storage"
	"github.com/roostlabs/roost/vault/accrual"
	"github.com/roostlabs/roost/vault/deposits"
	"github.com/roostlabs/roost/vault/reverts"
	"github.com/roostlabs/roost/vault/schedule"
)

// Address is the native address holding custody of staked assets and the
// vault's own storage.
var Address = roost.BytesToAddress([]byte("roost-vault"))

var slotTotalStaked = roost.BytesToBytes32([]byte("total-staked"))

var logger = log.WithContext("pkg", "vault")

// SetLogger allows to set a custom logger, mainly used for testing purposes.
func SetLogger(l log.Logger) {
	logger = l
}

// CustodyProvider moves assets in and out of vault custody.
type CustodyProvider interface {
	OwnerOf(id roost.Bytes32) (roost.Address, error)
	Transfer(from, to roost.Address, id roost.Bytes32) error
}

// RewardIssuer mints settled rewards to their owner.
type RewardIssuer interface {
	Mint(to roost.Address, amount *big.Int) error
}

// Vault orchestrates deposits, settlement and withdrawal over the deposit
// store, the schedule and the collaborators.
type Vault struct {
	params   *params.Params
	custody  CustodyProvider
	rewards  RewardIssuer
	deposits *deposits.Store
	schedule *schedule.Schedule
	staked   *storage.Counter
}

// New creates a vault binder over the given state and collaborators.
func New(state *state.State, custody CustodyProvider, rewards RewardIssuer, params *params.Params) *Vault {
	ctx := storage.NewContext(Address, state)
	return &Vault{
		params:   params,
		custody:  custody,
		rewards:  rewards,
		deposits: deposits.NewStore(ctx),
		schedule: schedule.New(ctx),
		staked:   storage.NewCounter(ctx, slotTotalStaked),
	}
}

// Deposit locks the caller's asset into vault custody and starts accrual.
func (v *Vault) Deposit(caller roost.Address, id roost.Bytes32, now uint64) error {
	logger.Debug("depositing asset", "asset", id, "caller", caller)

	record, err := v.deposits.Get(id)
	if err != nil {
		return err
	}
	if !record.IsEmpty() {
		return reverts.AlreadyStaked("asset already staked")
	}

	owner, err := v.custody.OwnerOf(id)
	if err != nil {
		return errors.Wrap(err, "failed to resolve asset owner")
	}
	if owner.IsZero() || owner != caller {
		return reverts.NotOwner("asset not held by caller")
	}

	if err := v.custody.Transfer(caller, Address, id); err != nil {
		return errors.Wrap(err, "failed to take custody")
	}
	if err := v.deposits.Insert(id, &deposits.Deposit{
		Owner:       caller,
		DepositedAt: now,
		SettledAt:   now,
	}); err != nil {
		return err
	}
	if err := v.staked.Add(big.NewInt(1)); err != nil {
		return err
	}

	logger.Info("deposited asset", "asset", id, "owner", caller)
	return nil
}

// Settle mints the rewards accrued since the last settlement and advances
// the settlement cursor. The asset stays in custody.
func (v *Vault) Settle(caller roost.Address, id roost.Bytes32, now uint64) (*big.Int, error) {
	logger.Debug("settling rewards", "asset", id, "caller", caller)

	record, err := v.owned(id, caller)
	if err != nil {
		return nil, err
	}

	owed, err := v.owedSince(record, now)
	if err != nil {
		return nil, err
	}
	if owed.Sign() <= 0 {
		return nil, reverts.NothingToClaim("no rewards accrued")
	}

	if err := v.deposits.TouchSettledAt(id, now); err != nil {
		return nil, err
	}
	if err := v.rewards.Mint(caller, owed); err != nil {
		return nil, errors.Wrap(err, "failed to mint rewards")
	}

	logger.Info("settled rewards", "asset", id, "owner", caller, "amount", owed)
	return owed, nil
}

// Withdraw settles any outstanding rewards and returns the asset to its
// owner. It refuses until the lock period has passed since the deposit.
func (v *Vault) Withdraw(caller roost.Address, id roost.Bytes32, now uint64) (*big.Int, error) {
	logger.Debug("withdrawing asset", "asset", id, "caller", caller)

	record, err := v.owned(id, caller)
	if err != nil {
		return nil, err
	}

	if now < record.DepositedAt+v.params.LockPeriod() {
		return nil, reverts.LockNotExpired("lock period not expired")
	}

	owed, err := v.owedSince(record, now)
	if err != nil {
		return nil, err
	}

	if err := v.deposits.Remove(id); err != nil {
		return nil, err
	}
	if err := v.custody.Transfer(Address, caller, id); err != nil {
		return nil, errors.Wrap(err, "failed to release custody")
	}
	if owed.Sign() > 0 {
		if err := v.rewards.Mint(caller, owed); err != nil {
			return nil, errors.Wrap(err, "failed to mint rewards")
		}
	} else {
		owed = new(big.Int)
	}
	if err := v.staked.Sub(big.NewInt(1)); err != nil {
		return nil, err
	}

	logger.Info("withdrew asset", "asset", id, "owner", caller, "amount", owed)
	return owed, nil
}

// ReplaceSchedule swaps the reward schedule for the given segments. Only
// the schedule admin may call it, and the swap is all or nothing.
func (v *Vault) ReplaceSchedule(caller roost.Address, segments []schedule.Segment) error {
	logger.Debug("replacing schedule", "caller", caller, "segments", len(segments))

	admin, err := v.params.ScheduleAdmin()
	if err != nil {
		return errors.Wrap(err, "failed to resolve schedule admin")
	}
	if admin.IsZero() || admin != caller {
		return reverts.NotOwner("caller is not the schedule admin")
	}
	if err := v.schedule.Replace(segments); err != nil {
		return err
	}

	logger.Info("replaced schedule", "segments", len(segments))
	return nil
}

//
// Getters - no state change
//

// GetDeposit returns the record of a staked asset, empty when not staked.
func (v *Vault) GetDeposit(id roost.Bytes32) (*deposits.Deposit, error) {
	return v.deposits.Get(id)
}

// PendingReward returns the reward a settlement at now would mint, zero
// for unstaked assets and never negative.
func (v *Vault) PendingReward(id roost.Bytes32, now uint64) (*big.Int, error) {
	record, err := v.deposits.Get(id)
	if err != nil {
		return nil, err
	}
	if record.IsEmpty() {
		return new(big.Int), nil
	}
	owed, err := v.owedSince(record, now)
	if err != nil {
		return nil, err
	}
	if owed.Sign() < 0 {
		return new(big.Int), nil
	}
	return owed, nil
}

// Schedule returns all schedule segments in walk order.
func (v *Vault) Schedule() ([]schedule.Segment, error) {
	return v.schedule.List()
}

// SegmentCount returns the number of schedule segments.
func (v *Vault) SegmentCount() (uint32, error) {
	return v.schedule.Count()
}

// TotalStaked returns the number of assets currently in custody.
func (v *Vault) TotalStaked() (*big.Int, error) {
	staked, err := v.staked.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staked counter")
	}
	return staked, nil
}

// owned loads the record of id and refuses unless caller staked it.
func (v *Vault) owned(id roost.Bytes32, caller roost.Address) (*deposits.Deposit, error) {
	record, err := v.deposits.Get(id)
	if err != nil {
		return nil, err
	}
	if record.IsEmpty() || record.Owner != caller {
		return nil, reverts.NotOwner("asset not staked by caller")
	}
	return record, nil
}

// owedSince re-derives the unsettled reward from absolute elapsed days, so
// the settlement cursor never accumulates rounding drift. The result can be
// negative under schedules with negative rates.
func (v *Vault) owedSince(record *deposits.Deposit, now uint64) (*big.Int, error) {
	segments, err := v.schedule.List()
	if err != nil {
		return nil, err
	}
	accrued := accrual.Accrue(segments, elapsedDays(record.DepositedAt, now))
	settled := accrual.Accrue(segments, elapsedDays(record.DepositedAt, record.SettledAt))
	return accrued.Sub(accrued, settled), nil
}

// elapsedDays counts the whole days between from and to.
func elapsedDays(from, to uint64) uint32 {
	if to <= from {
		return 0
	}
	return uint32((to - from) / roost.DaySeconds)
}
