// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/roostlabs/roost/api/assets"
	"github.com/roostlabs/roost/api/doc"
	"github.com/roostlabs/roost/api/events"
	"github.com/roostlabs/roost/api/rewards"
	"github.com/roostlabs/roost/api/schedules"
	"github.com/roostlabs/roost/api/stakes"
	"github.com/roostlabs/roost/api/subscriptions"
	"github.com/roostlabs/roost/api/utils"
	"github.com/roostlabs/roost/health"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/log"
	"github.com/roostlabs/roost/logdb"
)

var logger = log.WithContext("pkg", "api")

// maxRequestBody bounds request bodies, none of the endpoints accept
// anything close to this.
const maxRequestBody = 200 * 1024

type Options struct {
	AllowedOrigins  string
	EventsLimit     uint64
	StreamCacheSize uint32
	PprofOn         bool
	EnableReqLogger bool
	EnableMetrics   bool
}

// New return api router
func New(
	l *ledger.Ledger,
	h *health.Health,
	logDB *logdb.LogDB,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	// every response carries the genesis id, so clients can detect
	// talking to the wrong ledger
	genesisID := l.GenesisID().String()
	router.Use(func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("x-genesis-id", genesisID)
			h.ServeHTTP(w, req)
		})
	})

	// to serve the openapi doc
	router.PathPrefix("/doc").Handler(
		http.StripPrefix("/doc/", http.FileServer(http.FS(doc.FS))),
	)

	// redirect the index to the api doc
	router.Path("/").HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "doc/roost.yaml", http.StatusTemporaryRedirect)
		})

	stakes.New(l).
		Mount(router, "/stakes")
	schedules.New(l).
		Mount(router, "/schedules")
	assets.New(l).
		Mount(router, "/assets")
	rewards.New(l).
		Mount(router, "/rewards")
	events.New(logDB, opts.EventsLimit).
		Mount(router, "/events")

	router.Path("/health").
		Methods(http.MethodGet, http.MethodHead).
		HandlerFunc(utils.WrapHandlerFunc(healthHandler(h)))

	subs := subscriptions.New(l, origins, opts.StreamCacheSize)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(http.MaxBytesHandler(router, maxRequestBody))
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}

func healthHandler(h *health.Health) utils.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		status, err := h.Status()
		if err != nil {
			return err
		}

		if !status.Healthy {
			w.WriteHeader(http.StatusServiceUnavailable) // Set the status to 503
		} else {
			w.WriteHeader(http.StatusOK) // Set the status to 200
		}
		return utils.WriteJSON(w, status)
	}
}
