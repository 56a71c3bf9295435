// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/roostlabs/roost/api/utils"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/roost"
	"github.com/roostlabs/roost/vault"
)

type Stakes struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Stakes {
	return &Stakes{l}
}

func (s *Stakes) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	id, err := roost.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	stake := &Stake{AssetID: id}
	if err := s.ledger.ReadVault(func(v *vault.Vault, now uint64) error {
		record, err := v.GetDeposit(id)
		if err != nil {
			return err
		}
		if record.IsEmpty() {
			return nil
		}
		pending, err := v.PendingReward(id, now)
		if err != nil {
			return err
		}
		p := math.HexOrDecimal256(*pending)
		stake.Staked = true
		stake.Owner = &record.Owner
		stake.DepositedAt = record.DepositedAt
		stake.SettledAt = record.SettledAt
		stake.Pending = &p
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, stake)
}

func (s *Stakes) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	var dep DepositRequest
	if err := utils.ParseJSON(req.Body, &dep); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if dep.AssetID.IsZero() {
		return utils.BadRequest(errors.New("assetId: must be set"))
	}
	if dep.Caller.IsZero() {
		return utils.BadRequest(errors.New("caller: must be set"))
	}
	entry, err := s.ledger.Deposit(dep.Caller, dep.AssetID)
	if err != nil {
		return utils.MapRevert(err)
	}
	return utils.WriteJSON(w, receiptOf(entry))
}

func (s *Stakes) handleSettle(w http.ResponseWriter, req *http.Request) error {
	caller, id, err := parseCall(req)
	if err != nil {
		return err
	}
	entry, err := s.ledger.Settle(caller, id)
	if err != nil {
		return utils.MapRevert(err)
	}
	return utils.WriteJSON(w, receiptOf(entry))
}

func (s *Stakes) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	caller, id, err := parseCall(req)
	if err != nil {
		return err
	}
	entry, err := s.ledger.Withdraw(caller, id)
	if err != nil {
		return utils.MapRevert(err)
	}
	return utils.WriteJSON(w, receiptOf(entry))
}

func parseCall(req *http.Request) (roost.Address, roost.Bytes32, error) {
	id, err := roost.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return roost.Address{}, roost.Bytes32{}, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	var call CallerRequest
	if err := utils.ParseJSON(req.Body, &call); err != nil {
		return roost.Address{}, roost.Bytes32{}, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if call.Caller.IsZero() {
		return roost.Address{}, roost.Bytes32{}, utils.BadRequest(errors.New("caller: must be set"))
	}
	return call.Caller, id, nil
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleDeposit))
	sub.Path("/{id}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/{id}/settle").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleSettle))
	sub.Path("/{id}/withdraw").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleWithdraw))
}
