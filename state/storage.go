// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
)

// StorageEncoder implement it to customize encoding process for storage data.
type StorageEncoder interface {
	Encode() ([]byte, error)
}

// StorageDecoder implement it to customize decoding process for storage data.
type StorageDecoder interface {
	Decode([]byte) error
}

// encodeStorage encodes the given storage value.
// Zero values encode to empty data, so that empty slots take no space.
func encodeStorage(val interface{}) ([]byte, error) {
	if enc, ok := val.(StorageEncoder); ok {
		return enc.Encode()
	}
	if isZero(reflect.ValueOf(val)) {
		return nil, nil
	}
	return rlp.EncodeToBytes(val)
}

// decodeStorage decodes stored data into val.
// Empty data resets val to its zero value.
func decodeStorage(data []byte, val interface{}) error {
	if dec, ok := val.(StorageDecoder); ok {
		return dec.Decode(data)
	}
	if len(data) == 0 {
		v := reflect.ValueOf(val)
		v.Elem().Set(reflect.Zero(v.Type().Elem()))
		return nil
	}
	return rlp.DecodeBytes(data, val)
}

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return true
		}
		return isZero(v.Elem())
	default:
		return v.IsZero()
	}
}
