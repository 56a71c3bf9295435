// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/roostlabs/roost/co"
	"github.com/roostlabs/roost/genesis"
	"github.com/roostlabs/roost/ledger"
	"github.com/roostlabs/roost/log"
	"github.com/roostlabs/roost/logdb"
	"github.com/roostlabs/roost/lvldb"
)

func fatal(args ...interface{}) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name)))

	var level slog.LevelVar
	level.Set(logLevel)

	output := io.Writer(os.Stdout)
	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(output, &level)
	} else {
		useColor := isatty.IsTerminal(os.Stdout.Fd())
		handler = log.NewTerminalHandlerWithLevel(output, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level
}

func selectGenesis(ctx *cli.Context) *genesis.Genesis {
	network := ctx.String(networkFlag.Name)
	if network == "" {
		cli.ShowAppHelp(ctx)
		fmt.Println("network flag not specified")
		os.Exit(1)
	}
	if network == "dev" {
		return genesis.NewDevnet()
	}

	file, err := os.Open(network)
	if err != nil {
		fatal(fmt.Sprintf("open genesis file: %v", err))
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()

	var gen genesis.CustomGenesis
	if err := decoder.Decode(&gen); err != nil {
		fatal(fmt.Sprintf("decode genesis file: %v", err))
	}

	customGen, err := genesis.NewCustomNet(&gen)
	if err != nil {
		fatal(fmt.Sprintf("build genesis: %v", err))
	}
	return customGen
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := makeDataDir(ctx)

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(ctx *cli.Context, instanceDir string) *lvldb.LevelDB {
	cacheMB := normalizeCacheSize(int(ctx.Uint64(cacheFlag.Name)))
	log.Debug("cache size(MB)", "size", cacheMB)

	// go-ethereum stuff
	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))

	log.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	log.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(instanceDir, "main.db")
	// a quarter of the cache goes to the read-through front cache,
	// leveldb spends the rest on block cache and write buffers
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB * 3 / 4,
		OpenFilesCacheCapacity: fdCache,
		ReadCacheMB:            cacheMB / 4,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", dir, err))
	}
	return db
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		log.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func openLogDB(instanceDir string) *logdb.LogDB {
	dir := filepath.Join(instanceDir, "events.db")
	db, err := logdb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open event database [%v]: %v", dir, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open main database: %v", err))
	}
	return db
}

func openMemLogDB() *logdb.LogDB {
	db, err := logdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open event database: %v", err))
	}
	return db
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func()) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       time.Duration(ctx.Uint64(apiTimeoutFlag.Name)) * time.Millisecond,
	}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}
}

func handleExitSignal() context.Context {
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(
	gene *genesis.Genesis,
	l *ledger.Ledger,
	instanceDir string,
	apiURL string,
) {
	head := l.HeadSeq()
	headTime := time.Time{}
	if entry, err := l.Entry(head); err == nil {
		headTime = time.Unix(int64(entry.Time), 0)
	}

	info := fmt.Sprintf(`Starting %v
    Network      [ %v %v ]
    Journal head [ #%v @%v ]
    Instance dir [ %v ]
    API portal   [ %v ]`,
		common.MakeName("Roost", fullVersion()),
		gene.ID(), gene.Name(),
		head, headTime,
		instanceDir,
		apiURL)

	if gene.Name() == "devnet" {
		tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                              Asset ID                              │`
		tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
		tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

		info += tableHead
		for _, grant := range genesis.DevAssets() {
			info += fmt.Sprintf(tableContent, grant.Owner, grant.ID)
		}
		info += tableEnd
	}

	fmt.Println(info)
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.roostlabs.roost")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.roostlabs.roost")
		} else {
			return filepath.Join(home, ".org.roostlabs.roost")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
