// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	pb "gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/roostlabs/roost/api"
	"github.com/roostlabs/roost/cmd/roost/httpserver"
	"github.com/roostlabs/roost/cmd/roost/node"
	"github.com/roostlabs/roost/health"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/log"
	"github.com/roostlabs/roost/logdb"
	"github.com/roostlabs/roost/lvldb"
	"github.com/roostlabs/roost/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Roost",
		Usage:     "Node of the Roost staking ledger",
		Copyright: "2025 The Roost developers",
		Flags: []cli.Flag{
			networkFlag,
			dataDirFlag,
			memFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiCallLimitFlag,
			enableAPILogsFlag,
			metricsFlag,
			metricsAddrFlag,
			adminFlag,
			adminAddrFlag,
			cacheFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "rebuild-events",
				Usage: "rebuild the event index from the journal",
				Flags: []cli.Flag{
					networkFlag,
					dataDirFlag,
					cacheFlag,
					fromFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: rebuildEventsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	logLevel := initLogger(ctx)
	gene := selectGenesis(ctx)

	// enable metrics as soon as possible
	if ctx.Bool(metricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		log.Info("metrics server started", "url", url)
		defer closeFunc()
	}

	var mainDB *lvldb.LevelDB
	var logDB *logdb.LogDB
	var instanceDir string

	if ctx.Bool(memFlag.Name) {
		instanceDir = "Memory"
		mainDB = openMemMainDB()
		logDB = openMemLogDB()
	} else {
		instanceDir = makeInstanceDir(ctx, gene)
		mainDB = openMainDB(ctx, instanceDir)
		logDB = openLogDB(instanceDir)
	}

	defer func() { log.Info("closing main database..."); mainDB.Close() }()
	defer func() { log.Info("closing event database..."); logDB.Close() }()

	l, err := ledger.New(mainDB, gene, logDB, nil)
	if err != nil {
		return errors.Wrap(err, "initialize ledger")
	}

	apiHandler, apiCloser := api.New(l, health.New(l), logDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Uint64(apiCallLimitFlag.Name),
		StreamCacheSize: 1000,
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(metricsFlag.Name),
	})
	defer func() { log.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser := startAPIServer(ctx, apiHandler)
	defer func() { log.Info("stopping API server..."); srvCloser() }()

	if ctx.Bool(adminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, l)
		if err != nil {
			return errors.Wrap(err, "start admin server")
		}
		log.Info("admin server started", "url", url)
		defer closeFunc()
	}

	printStartupMessage(gene, l, instanceDir, apiURL)

	return node.New(l).Run(handleExitSignal())
}

func rebuildEventsAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	initLogger(ctx)
	gene := selectGenesis(ctx)
	instanceDir := makeInstanceDir(ctx, gene)

	mainDB := openMainDB(ctx, instanceDir)
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	logDB := openLogDB(instanceDir)
	defer func() { log.Info("closing event database..."); logDB.Close() }()

	l, err := ledger.New(mainDB, gene, nil, nil)
	if err != nil {
		return errors.Wrap(err, "initialize ledger")
	}

	from := ctx.Uint64(fromFlag.Name)
	head := l.HeadSeq()
	if from > head {
		return errors.Errorf("--from %v is beyond the journal head %v", from, head)
	}

	fmt.Println(">> Rebuilding event index <<")
	bar := pb.New64(int64(head + 1)).Set64(int64(from)).SetMaxWidth(90).Start()
	defer func() { bar.NotPrint = true }()

	if err := l.RebuildIndex(handleExitSignal(), logDB, from, func(uint64) {
		bar.Add64(1)
	}); err != nil {
		return err
	}
	bar.Finish()

	log.Info("event index rebuilt", "entries", head-from+1)
	return nil
}
