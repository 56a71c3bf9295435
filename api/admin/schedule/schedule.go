// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/roostlabs/roost/api/schedules"
	"github.com/roostlabs/roost/api/utils"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/params"
)

// Response reports the committed schedule replacement.
type Response struct {
	Seq       uint64                  `json:"seq"`
	Time      uint64                  `json:"time"`
	Installed []schedules.JSONSegment `json:"installed"`
}

// Schedule replaces the accrual schedule, acting as the configured
// schedule admin. Admin checks still run in the vault.
type Schedule struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Schedule {
	return &Schedule{l}
}

func (s *Schedule) handleReplace(w http.ResponseWriter, req *http.Request) error {
	var body []schedules.JSONSegment
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	st, release, err := s.ledger.Read()
	if err != nil {
		return err
	}
	admin, err := params.New(st).ScheduleAdmin()
	release()
	if err != nil {
		return err
	}

	entry, err := s.ledger.ReplaceSchedule(admin, schedules.ToSegments(body))
	if err != nil {
		return utils.MapRevert(err)
	}
	return utils.WriteJSON(w, Response{
		Seq:       entry.Seq,
		Time:      entry.Time,
		Installed: schedules.ConvertSchedule(entry.Segments),
	})
}

func (s *Schedule) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodPost).
		Name("post-schedule").
		HandlerFunc(utils.WrapHandlerFunc(s.handleReplace))
}
