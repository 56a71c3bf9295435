// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roost

import (
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func BenchmarkBlake2b(b *testing.B) {
	data := make([]byte, 100)

	rng := rand.New(rand.NewSource(1)) //#nosec G404
	for i := range data {
		data[i] = byte(rng.Uint64())
	}
	b.Run("Blake2b", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Blake2b(data).Bytes()
		}
	})

	b.Run("Blake2bFn", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Blake2bFn(func(w io.Writer) {
				w.Write(data)
			})
		}
	})
}

func TestNewBlake2b(t *testing.T) {
	hasher := NewBlake2b()
	if hasher == nil {
		t.Error("NewBlake2b returned nil")
	}

	testString := "roost"
	hasher.Write([]byte(testString))
	sum := hasher.Sum(nil)
	if len(sum) != 32 {
		t.Errorf("Expected BLAKE2b-256 hash length of 32, got %d", len(sum))
	}
}

func TestBlake2b(t *testing.T) {
	singleData := []byte("data")
	multipleData := [][]byte{[]byte("multi"), []byte("ple"), []byte("data")}

	// Single slice of data
	singleHash := Blake2b(singleData)
	if len(singleHash) != 32 {
		t.Errorf("Expected hash length of 32, got %d", len(singleHash))
	}

	// Multiple slices of data
	multiHash := Blake2b(multipleData...)
	if len(multiHash) != 32 {
		t.Errorf("Expected hash length of 32, got %d", len(multiHash))
	}

	// Check if different data results in different hashes
	if singleHash == multiHash {
		t.Error("Expected different hashes for different data")
	}

	// Concatenation of the parts hashes the same either way
	assert.Equal(t, Blake2b([]byte("multipledata")), multiHash)
}

func TestBlake2bFn(t *testing.T) {
	h := Blake2bFn(func(w io.Writer) {
		w.Write([]byte("custom writer"))
	})

	assert.Equal(t, Blake2b([]byte("custom writer")), h)
}
