// Command skyconnect is a terminal client for the SkyConnect airport API. It
// keeps a local copy of the airport list and the search history between runs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jhonatancruzmail/SkyConnectExplorer/clientstore"
	"github.com/jhonatancruzmail/SkyConnectExplorer/config"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/cache"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout is reserved for command output
	logger.Init(logger.Config{Level: cfg.LoggingConfig.Level, Format: "text", Output: os.Stderr})

	storage, err := cache.OpenLocal(cfg.ClientConfig.CacheFile)
	if err != nil {
		logger.Warn("Local airport cache unavailable, keeping state in memory", "path", cfg.ClientConfig.CacheFile, "error", err.Error())
	}

	store := clientstore.New(
		clientstore.NewAPIClient(cfg.ClientConfig.APIURL, cfg.AviationstackConfig.Timeout),
		clientstore.WithStorage(storage, cache.ClientStateKey()),
		clientstore.WithTTL(cfg.ClientConfig.CacheTTL),
		clientstore.WithHistoryLimit(cfg.ClientConfig.HistoryLimit),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{store: store, out: os.Stdout, pageSize: cfg.ClientConfig.PageSize}
	if code := report(os.Stderr, a.run(ctx, os.Args[1:])); code != 0 {
		os.Exit(code)
	}
}
