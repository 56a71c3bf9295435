// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/roostlabs/roost/api/utils"
	"github.com/roostlabs/roost/logdb"
)

var knownKinds = map[string]bool{
	logdb.KindGenesis:  true,
	logdb.KindDeposit:  true,
	logdb.KindSettle:   true,
	logdb.KindWithdraw: true,
	logdb.KindSchedule: true,
}

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, eventsLimit uint64) *Events {
	return &Events{
		db,
		eventsLimit,
	}
}

// filter queries indexed events with the given option.
func (e *Events) filter(ctx context.Context, ef *EventFilter) ([]*FilteredEvent, error) {
	events, err := e.db.Filter(ctx, convertFilter(ef))
	if err != nil {
		return nil, err
	}
	fes := make([]*FilteredEvent, len(events))
	for i, event := range events {
		fes[i] = convertEvent(event)
	}
	return fes, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if err := filter.Range.Validate(); err != nil {
		return utils.BadRequest(err)
	}
	for i, kind := range filter.Kinds {
		if !knownKinds[kind] {
			return utils.BadRequest(fmt.Errorf("kinds[%d]: unknown kind '%s'", i, kind))
		}
	}
	if filter.Options == nil {
		// if filter.Options is nil, set to the default limit +1
		// to detect whether there are more events than the default limit
		filter.Options = &Options{
			Offset: 0,
			Limit:  e.limit + 1,
		}
	}

	fes, err := e.filter(req.Context(), &filter)
	if err != nil {
		return err
	}

	// ensure the result size is less than the configured limit
	if len(fes) > int(e.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}

	return utils.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
