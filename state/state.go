// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/roostlabs/roost/kv"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/stackedmap"
)

// persisted storage entries are keyed by prefix + address + key.
const storagePrefix = 's'

var errReadOnly = errors.New("read only")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// State manages contract-style storage slots.
// All changes are journaled in memory until staged and committed in one batch.
type State struct {
	getter kv.Getter
	store  kv.GetPutter // nil for read-only instances
	sm     *stackedmap.StackedMap
}

func newState(getter kv.Getter, store kv.GetPutter) *State {
	state := &State{getter: getter, store: store}
	state.sm = stackedmap.New(func(key interface{}) (interface{}, bool, error) {
		return state.cacheGetter(key)
	})
	return state
}

// New creates a state backed by the given store.
func New(store kv.GetPutter) *State {
	return newState(store, store)
}

// NewReader creates a read-only state over the given getter,
// usually a snapshot of the store.
// Staging changes of a read-only state will fail.
func NewReader(getter kv.Getter) *State {
	return newState(getter, nil)
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key interface{}) (value interface{}, exist bool, err error) {
	switch k := key.(type) {
	case storageKey: // get storage
		data, err := s.getter.Get(persistKey(k.addr, k.key))
		if err != nil {
			if s.getter.IsNotFound(err) {
				// never stored, treat as cleared
				return rlp.RawValue(nil), true, nil
			}
			return nil, false, err
		}
		return rlp.RawValue(data), true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr roost.Address, key roost.Bytes32) (roost.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return roost.Bytes32{}, &Error{err}
	}
	if len(raw) == 0 {
		return roost.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return roost.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return roost.Blake2b(raw), nil
	}
	return roost.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr roost.Address, key, value roost.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr roost.Address, key roost.Bytes32) (rlp.RawValue, error) {
	metricStorageCounter().AddWithLabel(1, map[string]string{"type": "read"})
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
// Empty raw clears the entry.
func (s *State) SetRawStorage(addr roost.Address, key roost.Bytes32, raw rlp.RawValue) {
	metricStorageCounter().AddWithLabel(1, map[string]string{"type": "write"})
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr roost.Address, key roost.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr roost.Address, key roost.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return &Error{err}
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// SetStructuredStorage encodes the given value and saves it into storage.
// The value is encoded by its Encode method if it implements StorageEncoder,
// otherwise in RLP. Zero values occupy no storage.
func (s *State) SetStructuredStorage(addr roost.Address, key roost.Bytes32, val interface{}) error {
	return s.EncodeStorage(addr, key, func() ([]byte, error) {
		return encodeStorage(val)
	})
}

// GetStructuredStorage loads the storage value and decodes it into val.
func (s *State) GetStructuredStorage(addr roost.Address, key roost.Bytes32, val interface{}) error {
	return s.DecodeStorage(addr, key, func(data []byte) error {
		return decodeStorage(data, val)
	})
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to commit all journaled changes in one batch.
func (s *State) Stage() (*Stage, error) {
	if s.store == nil {
		return nil, &Error{errReadOnly}
	}

	changes := make(map[storageKey]rlp.RawValue)
	// traverse journal to collect final values
	s.sm.Journal(func(k, v interface{}) bool {
		switch key := k.(type) {
		case storageKey:
			changes[key] = v.(rlp.RawValue)
		}
		return true
	})

	batch := s.store.NewBatch()
	for k, raw := range changes {
		if len(raw) == 0 {
			// cleared entries release their slots
			if err := batch.Delete(persistKey(k.addr, k.key)); err != nil {
				return nil, &Error{err}
			}
		} else {
			if err := batch.Put(persistKey(k.addr, k.key), raw); err != nil {
				return nil, &Error{err}
			}
		}
	}
	return &Stage{batch: batch}, nil
}

func persistKey(addr roost.Address, key roost.Bytes32) []byte {
	k := make([]byte, 0, 1+len(addr)+len(key))
	k = append(k, storagePrefix)
	k = append(k, addr[:]...)
	return append(k, key[:]...)
}

type storageKey struct {
	addr roost.Address
	key  roost.Bytes32
}
