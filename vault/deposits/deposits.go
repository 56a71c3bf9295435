// Copyright (c) 2025 The Roost developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package deposits persists the per-asset deposit records of the vault.
// A record exists exactly while the vault holds custody of the asset.
// Ownership and timing policy live with the caller, the store only refuses
// double inserts.
package deposits

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/storage"
	"github.com/roostlabs/roost/vault/reverts"
)

var slotDeposits = roost.BytesToBytes32([]byte("deposits"))

// Deposit is the record of one staked asset. DepositedAt anchors the accrual
// clock, SettledAt is the cursor the last payout advanced to. Both are unix
// timestamps in seconds.
type Deposit struct {
	Owner       roost.Address
	DepositedAt uint64
	SettledAt   uint64
}

func (d *Deposit) IsEmpty() bool {
	return d.Owner.IsZero() && d.DepositedAt == 0 && d.SettledAt == 0
}

// Encode implements state.StorageEncoder.
func (d *Deposit) Encode() ([]byte, error) {
	if d.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(d)
}

// Decode implements state.StorageDecoder.
func (d *Deposit) Decode(data []byte) error {
	if len(data) == 0 {
		*d = Deposit{}
		return nil
	}
	return rlp.DecodeBytes(data, d)
}

// Store reads and writes deposit records under the vault address.
type Store struct {
	records *storage.Mapping[roost.Bytes32, Deposit]
}

func NewStore(ctx *storage.Context) *Store {
	return &Store{
		records: storage.NewMapping[roost.Bytes32, Deposit](ctx, slotDeposits),
	}
}

// Get loads the record of the given asset, empty when not staked.
func (s *Store) Get(id roost.Bytes32) (*Deposit, error) {
	record, err := s.records.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deposit")
	}
	return &record, nil
}

// Insert writes the record of a newly staked asset.
func (s *Store) Insert(id roost.Bytes32, record *Deposit) error {
	staked, err := s.records.Has(id)
	if err != nil {
		return errors.Wrap(err, "failed to check deposit")
	}
	if staked {
		return reverts.AlreadyStaked("asset already staked")
	}
	if err := s.records.Set(id, *record); err != nil {
		return errors.Wrap(err, "failed to set deposit")
	}
	return nil
}

// Remove deletes the record, releasing its slot.
func (s *Store) Remove(id roost.Bytes32) error {
	if err := s.records.Set(id, Deposit{}); err != nil {
		return errors.Wrap(err, "failed to remove deposit")
	}
	return nil
}

// TouchSettledAt advances the settlement cursor of an existing record.
func (s *Store) TouchSettledAt(id roost.Bytes32, now uint64) error {
	record, err := s.Get(id)
	if err != nil {
		return err
	}
	if record.IsEmpty() {
		return errors.New("no deposit to settle")
	}
	record.SettledAt = now
	if err := s.records.Set(id, *record); err != nil {
		return errors.Wrap(err, "failed to update deposit")
	}
	return nil
}
