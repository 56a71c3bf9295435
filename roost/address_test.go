// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>
package roost

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		input   string
		wantErr string
	}{
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", ""},
		{"7567d83b7b8d80addcb281a71d54fc7b3364ffed", ""},
		{"0X7567d83b7b8d80addcb281a71d54fc7b3364ffed", ""},
		{"0y7567d83b7b8d80addcb281a71d54fc7b3364ffed", "invalid prefix"},
		{"0x7567d83b", "invalid length"},
	}

	for _, tt := range tests {
		addr, err := ParseAddress(tt.input)
		if tt.wantErr == "" {
			assert.NoError(t, err)
			assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())
		} else {
			assert.EqualError(t, err, tt.wantErr)
		}
	}
}

func TestAddressMarshalUnmarshal(t *testing.T) {
	originalJSON := `"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"`

	var addr Address
	assert.NoError(t, json.Unmarshal([]byte(originalJSON), &addr))

	marshaled, err := json.Marshal(&addr)
	assert.NoError(t, err)
	assert.Equal(t, originalJSON, string(marshaled))
}

func TestAddressIsZero(t *testing.T) {
	assert.True(t, Address{}.IsZero())
	assert.False(t, MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed").IsZero())

	// BytesToAddress crops from the left
	assert.Equal(t, MustParseAddress("0x0000000000000000000000000000000000000001"), BytesToAddress([]byte{0x01}))
}
