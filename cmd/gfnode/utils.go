// Copyright (c) 2018 The GoldFinger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/GoldFingerRWA/goldfinger/genesis"
	"github.com/GoldFingerRWA/goldfinger/logdb"
	"github.com/GoldFingerRWA/goldfinger/lvldb"
	"github.com/GoldFingerRWA/goldfinger/metrics"
	gfruntime "github.com/GoldFingerRWA/goldfinger/runtime"
	"github.com/GoldFingerRWA/goldfinger/state"
)

func initLogger(ctx *cli.Context, w io.Writer) *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(w, level)
	} else {
		useColor := false
		if f, ok := w.(*os.File); ok {
			useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		handler = log.NewTerminalHandlerWithLevel(w, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return level
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.goldfinger")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.goldfinger")
		default:
			return filepath.Join(home, ".org.goldfinger")
		}
	}
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

func loadGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	cfg, err := genesis.Load(path)
	if err != nil {
		return nil, err
	}
	gene, err := genesis.NewCustomNet(cfg)
	if err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}
	return gene, nil
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	name := strings.ToLower(strings.ReplaceAll(gene.Name(), " ", "-"))
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%s-%d", name, gene.LaunchTime()))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

// ledger is the pair of stores a node runs on.
type ledger struct {
	mainDB *lvldb.LevelDB
	logDB  *logdb.LogDB
	dir    string
}

func (l *ledger) Close() {
	logger.Info("closing log database...")
	if err := l.logDB.Close(); err != nil {
		logger.Warn("failed to close log database", "err", err)
	}
	logger.Info("closing main database...")
	if err := l.mainDB.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

func openLedger(ctx *cli.Context, gene *genesis.Genesis) (*ledger, error) {
	if !ctx.BoolT(persistFlag.Name) {
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return nil, err
		}
		logDB, err := logdb.NewMem()
		if err != nil {
			mainDB.Close()
			return nil, err
		}
		return &ledger{mainDB, logDB, "memory"}, nil
	}

	dir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return nil, err
	}
	mainDB, err := lvldb.New(filepath.Join(dir, "main.db"), lvldb.Options{
		CacheSize:              normalizeCacheSize(int(ctx.Uint64(cacheFlag.Name))),
		OpenFilesCacheCapacity: suggestFDCache(),
	})
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.New(filepath.Join(dir, "logs.db"))
	if err != nil {
		mainDB.Close()
		return nil, errors.Wrap(err, "open log database")
	}
	return &ledger{mainDB, logDB, dir}, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 64 {
		sizeMB = 64
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
	} else {
		total := int(mem.Total / 1024 / 1024)
		// not more than half of the total memory
		if limitMB := total / 2; sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("unable to get fdlimit", "error", err)
		return 500
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

// initState writes the genesis state into an empty store.
func initState(gene *genesis.Genesis, stater *state.Stater) error {
	best, err := gfruntime.BestBlock(stater.NewState())
	if err != nil {
		return err
	}
	if best.Time != 0 {
		logger.Info("ledger loaded", "best", best.Number, "time", best.Time)
		return nil
	}
	events, err := gene.Build(stater)
	if err != nil {
		return errors.WithMessage(err, "build genesis state")
	}
	logger.Info("genesis state built", "name", gene.Name(), "events", len(events))
	return nil
}

func newServer(handler http.Handler) *http.Server {
	return &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
}

func metricsHandler() http.Handler {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return handlers.CompressHandler(router)
}

// serve runs srv on listener until ctx is done.
func serve(ctx context.Context, name string, srv *http.Server, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return errors.Wrapf(err, "%s server", name)
	case <-ctx.Done():
	}

	logger.Info("stopping server...", "name", name)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrapf(err, "shutdown %s server", name)
	}
	return nil
}

func printStartupMessage(gene *genesis.Genesis, best *gfruntime.Block, dataDir, apiURL, metricsURL, adminURL string) {
	fmt.Printf(`Starting %v
    Network      [ %v launched at %v ]
    Best block   [ #%v %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		fullVersion(),
		gene.Name(), time.Unix(int64(gene.LaunchTime()), 0).UTC().Format(time.RFC3339),
		best.Number, time.Unix(int64(best.Time), 0).UTC().Format(time.RFC3339),
		dataDir,
		apiURL,
		orDisabled(metricsURL),
		orDisabled(adminURL),
	)
}

func orDisabled(url string) string {
	if url == "" {
		return "Disabled"
	}
	return url
}
