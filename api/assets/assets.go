// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/roostlabs/roost/api/utils"
	"github.com/roostlabs/roost/asset"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/vault"
)

// Asset is the client view of one registry entry.
type Asset struct {
	AssetID roost.Bytes32  `json:"assetId"`
	Minted  bool           `json:"minted"`
	Owner   *roost.Address `json:"owner,omitempty"`
	Staked  bool           `json:"staked"`
}

type Assets struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Assets {
	return &Assets{l}
}

func (a *Assets) handleGetAsset(w http.ResponseWriter, req *http.Request) error {
	id, err := roost.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	st, release, err := a.ledger.Read()
	if err != nil {
		return err
	}
	defer release()

	owner, err := asset.New(st).OwnerOf(id)
	if err != nil {
		return err
	}
	res := &Asset{AssetID: id}
	if !owner.IsZero() {
		res.Minted = true
		res.Owner = &owner
		res.Staked = owner == vault.Address
	}
	return utils.WriteJSON(w, res)
}

func (a *Assets) handleGetTotal(w http.ResponseWriter, _ *http.Request) error {
	st, release, err := a.ledger.Read()
	if err != nil {
		return err
	}
	defer release()

	total, err := asset.New(st).Total()
	if err != nil {
		return err
	}
	minted := math.HexOrDecimal256(*total)
	return utils.WriteJSON(w, utils.M{"total": &minted})
}

func (a *Assets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetTotal))
	sub.Path("/{id}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAsset))
}
