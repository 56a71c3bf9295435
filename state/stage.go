// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/roostlabs/roost/kv"

// Stage holds the pending writes of a state, ready to be committed.
type Stage struct {
	batch kv.Batch
}

// Len returns the count of pending writes.
func (s *Stage) Len() int {
	return s.batch.Len()
}

// Put adds an extra write to the staged batch. It lands in the same commit
// as the storage changes.
func (s *Stage) Put(key, val []byte) error {
	if err := s.batch.Put(key, val); err != nil {
		return &Error{err}
	}
	return nil
}

// Commit commits all changes into the backing store.
func (s *Stage) Commit() error {
	if err := s.batch.Write(); err != nil {
		return &Error{err}
	}
	return nil
}
