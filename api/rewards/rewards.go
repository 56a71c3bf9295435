// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/roostlabs/roost/api/utils"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/token"
)

// Balance is the reward holding of a single address.
type Balance struct {
	Address roost.Address         `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Rewards struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Rewards {
	return &Rewards{l}
}

func (r *Rewards) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := roost.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	st, release, err := r.ledger.Read()
	if err != nil {
		return err
	}
	defer release()

	bal, err := token.New(st).BalanceOf(*addr)
	if err != nil {
		return err
	}
	hex := math.HexOrDecimal256(*bal)
	return utils.WriteJSON(w, &Balance{Address: *addr, Balance: &hex})
}

func (r *Rewards) handleGetSupply(w http.ResponseWriter, _ *http.Request) error {
	st, release, err := r.ledger.Read()
	if err != nil {
		return err
	}
	defer release()

	supply, err := token.New(st).TotalSupply()
	if err != nil {
		return err
	}
	hex := math.HexOrDecimal256(*supply)
	return utils.WriteJSON(w, utils.M{"totalSupply": &hex})
}

func (r *Rewards) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(r.handleGetSupply))
	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(r.handleGetBalance))
}
