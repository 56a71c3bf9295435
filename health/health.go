// Copyright (c) 2024 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"time"

	"github.com/roostlabs/roost/ledger"
)

type Status struct {
	Healthy       bool   `json:"healthy"`
	HeadSeq       uint64 `json:"headSeq"`
	HeadTime      uint64 `json:"headTime"`
	UptimeSeconds uint64 `json:"uptimeSeconds"`
}

// Health reports whether the journal head is readable.
type Health struct {
	ledger    *ledger.Ledger
	startTime time.Time
}

func New(l *ledger.Ledger) *Health {
	return &Health{
		ledger:    l,
		startTime: time.Now(),
	}
}

func (h *Health) Status() (*Status, error) {
	status := &Status{
		HeadSeq:       h.ledger.HeadSeq(),
		UptimeSeconds: uint64(time.Since(h.startTime).Seconds()),
	}

	// the head entry must always be readable, anything else means
	// the store is in trouble
	entry, err := h.ledger.Entry(status.HeadSeq)
	if err != nil {
		return status, nil
	}
	status.HeadTime = entry.Time
	status.Healthy = true
	return status, nil
}
