// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package journal

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/roostlabs/roost/api/utils"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/roost"
)

// Status describes the journal of a running node.
type Status struct {
	HeadSeq   uint64        `json:"headSeq"`
	Entries   uint64        `json:"entries"`
	GenesisID roost.Bytes32 `json:"genesisId"`
}

type Journal struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Journal {
	return &Journal{l}
}

func (j *Journal) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	head := j.ledger.HeadSeq()
	return utils.WriteJSON(w, Status{
		HeadSeq:   head,
		Entries:   head + 1,
		GenesisID: j.ledger.GenesisID(),
	})
}

func (j *Journal) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("get-journal").
		HandlerFunc(utils.WrapHandlerFunc(j.handleGetStatus))
}
