// Copyright (c) 2025 The Roost developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/roostlabs/roost/roost"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a keyed storage abstraction, similar to the mapping in Solidity.
// Entry positions derive from the hash of key and base position, so mappings
// with distinct base positions never collide.
type Mapping[K Key, V any] struct {
	context *Context
	basePos roost.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos roost.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

// Get loads the value at key. Missing entries load the zero value.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.GetStructuredStorage(m.context.address, m.position(key), &value)
	return
}

// Set saves the value at key. Zero values clear the entry.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.SetStructuredStorage(m.context.address, m.position(key), &value)
}

// Has reports whether an entry exists at key.
func (m *Mapping[K, V]) Has(key K) (bool, error) {
	raw, err := m.context.state.GetRawStorage(m.context.address, m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

func (m *Mapping[K, V]) position(key K) roost.Bytes32 {
	return roost.Blake2b(key.Bytes(), m.basePos.Bytes())
}
