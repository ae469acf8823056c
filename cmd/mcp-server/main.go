// Command mcp-server exposes airport search to MCP clients over stdio.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/jhonatancruzmail/SkyConnectExplorer/clientstore"
	"github.com/jhonatancruzmail/SkyConnectExplorer/config"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/buildinfo"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/cache"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol
	logger.Init(logger.Config{Level: cfg.LoggingConfig.Level, Format: cfg.LoggingConfig.Format, Output: os.Stderr})

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

	s := server.NewMCPServer(
		"skyconnect-airports-mcp",
		buildinfo.Version,
		server.WithLogging(),
	)
	t := &tools{store: store, defaultPageSize: cfg.ClientConfig.PageSize}
	t.register(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
	}
}
