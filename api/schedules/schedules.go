// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedules

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/roostlabs/roost/api/utils"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/vault"
	"github.com/roostlabs/roost/vault/schedule"
)

type Schedules struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Schedules {
	return &Schedules{l}
}

func (s *Schedules) handleGetSchedule(w http.ResponseWriter, _ *http.Request) error {
	var segments []schedule.Segment
	if err := s.ledger.ReadVault(func(v *vault.Vault, _ uint64) error {
		var err error
		segments, err = v.Schedule()
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, ConvertSchedule(segments))
}

func (s *Schedules) handleGetCount(w http.ResponseWriter, _ *http.Request) error {
	var count uint32
	if err := s.ledger.ReadVault(func(v *vault.Vault, _ uint64) error {
		var err error
		count, err = v.SegmentCount()
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"count": count})
}

func (s *Schedules) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetSchedule))
	sub.Path("/count").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetCount))
}
