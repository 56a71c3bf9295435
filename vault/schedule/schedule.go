// Copyright (c) 2025 The Roost developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package schedule persists the piecewise reward schedule of the vault.
// Segments live in indexed slots below a count slot, replacement swaps the
// whole schedule or none of it.
package schedule

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/storage"
	"github.com/roostlabs/roost/vault/reverts"
)

var (
	slotCount    = roost.BytesToBytes32([]byte("schedule-count"))
	slotSegments = roost.BytesToBytes32([]byte("schedule-segments"))
)

// Schedule reads and writes the stored segments.
type Schedule struct {
	ctx      *storage.Context
	segments *storage.Mapping[roost.Bytes32, Segment]
}

func New(ctx *storage.Context) *Schedule {
	return &Schedule{
		ctx:      ctx,
		segments: storage.NewMapping[roost.Bytes32, Segment](ctx, slotSegments),
	}
}

func indexKey(i uint32) roost.Bytes32 {
	var key roost.Bytes32
	binary.BigEndian.PutUint32(key[:], i)
	return key
}

//
// Getters - no state change
//

// Count returns the number of stored segments.
func (s *Schedule) Count() (uint32, error) {
	var count uint32
	if err := s.ctx.State().GetStructuredStorage(s.ctx.Address(), slotCount, &count); err != nil {
		return 0, errors.Wrap(err, "failed to get segment count")
	}
	return count, nil
}

// Get returns the segment at index i.
func (s *Schedule) Get(i uint32) (*Segment, error) {
	count, err := s.Count()
	if err != nil {
		return nil, err
	}
	if i >= count {
		return nil, errors.Errorf("segment index %d out of range", i)
	}
	seg, err := s.segments.Get(indexKey(i))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get segment")
	}
	return &seg, nil
}

// List returns all segments in walk order.
func (s *Schedule) List() ([]Segment, error) {
	count, err := s.Count()
	if err != nil {
		return nil, err
	}
	segments := make([]Segment, 0, count)
	for i := uint32(0); i < count; i++ {
		seg, err := s.segments.Get(indexKey(i))
		if err != nil {
			return nil, errors.Wrap(err, "failed to get segment")
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

//
// Setters - state change
//

// Replace swaps the whole schedule for the given segments. The swap is
// guarded by a checkpoint, the prior schedule stays in place when anything
// fails.
func (s *Schedule) Replace(segments []Segment) error {
	if len(segments) == 0 {
		return reverts.InvalidConfiguration("empty schedule")
	}
	for _, seg := range segments {
		if seg.End < seg.Start {
			return reverts.InvalidConfiguration("segment end before start")
		}
	}

	st := s.ctx.State()
	checkpoint := st.NewCheckpoint()

	if err := s.clear(); err != nil {
		st.RevertTo(checkpoint)
		return err
	}
	for i, seg := range segments {
		if err := s.segments.Set(indexKey(uint32(i)), seg); err != nil {
			st.RevertTo(checkpoint)
			return errors.Wrap(err, "failed to set segment")
		}
	}
	if err := s.ctx.State().SetStructuredStorage(s.ctx.Address(), slotCount, uint32(len(segments))); err != nil {
		st.RevertTo(checkpoint)
		return errors.Wrap(err, "failed to set segment count")
	}
	return nil
}

// clear removes all stored segments and zeroes the count slot.
func (s *Schedule) clear() error {
	count, err := s.Count()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if err := s.segments.Set(indexKey(i), Segment{}); err != nil {
			return errors.Wrap(err, "failed to clear segment")
		}
	}
	if err := s.ctx.State().SetStructuredStorage(s.ctx.Address(), slotCount, uint32(0)); err != nil {
		return errors.Wrap(err, "failed to clear segment count")
	}
	return nil
}
