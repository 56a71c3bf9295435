// Copyright (c) 2024 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/roostlabs/roost/api/admin/journal"
	"github.com/roostlabs/roost/api/admin/loglevel"
	"github.com/roostlabs/roost/api/admin/schedule"
	"github.com/roostlabs/roost/ledger"
)

func New(logLevel *slog.LevelVar, l *ledger.Ledger) http.HandlerFunc {
	router := mux.NewRouter()

	loglevel.New(logLevel).Mount(router, "/admin/loglevel")
	schedule.New(l).Mount(router, "/admin/schedule")
	journal.New(l).Mount(router, "/admin/journal")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
