// File path: cmd/menucard/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/bhanuchaddha/online-menu-card/internal/api"
	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/data/orchestrator"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("menucard: .env file not loaded", "error", err)
	} else {
		logger.Info("menucard: environment loaded from .env")
	}

	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "", "path to the SQLite database (overrides MENUCARD_DB_PATH)")
	indexTimeout := flag.String("index-timeout", "", "per-restaurant reindex deadline (e.g. 90s, 2m)")
	indexConcurrency := flag.Int("index-concurrency", 0, "max restaurants reindexed in parallel (0 uses defaults)")
	flag.Parse()

	logger.Info("menucard: startup initiated", "addr", *addr)

	orchCfg, err := orchestrator.LoadConfig()
	if err != nil {
		logger.Error("menucard: orchestrator config load failed", "error", err)
		fmt.Println("orchestrator config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*dbPath); trimmed != "" {
		orchCfg.SQLitePath = trimmed
	}
	if trimmed := strings.TrimSpace(*indexTimeout); trimmed != "" {
		dur, err := time.ParseDuration(trimmed)
		if err != nil {
			logger.Error("menucard: invalid index timeout", "value", trimmed, "error", err)
			fmt.Println("index timeout error:", err)
			os.Exit(1)
		}
		orchCfg.IndexTimeout = dur
	}
	if *indexConcurrency > 0 {
		orchCfg.IndexConcurrency = *indexConcurrency
	}

	orch, err := orchestrator.New(ctx, orchCfg)
	if err != nil {
		logger.Error("menucard: orchestrator initialization failed", "error", err)
		fmt.Println("orchestrator error:", err)
		os.Exit(1)
	}
	defer orch.Close()

	if provider := orch.Provider(); provider != nil {
		logger.Info("menucard: llm provider ready", "provider", provider.Name())
	} else {
		logger.Warn("menucard: no llm provider configured, semantic search and extraction disabled")
	}
	if vec := orch.Vector(); vec.Available() {
		logger.Info("menucard: vector store ready")
	} else {
		logger.Warn("menucard: vector store unreachable")
	}

	server, err := api.NewServer(orch)
	if err != nil {
		logger.Error("menucard: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	fmt.Printf("Serving on %s\n", *addr)
	logger.Info("menucard: server listening", "addr", *addr, "health", "/healthz")
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("menucard: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}
