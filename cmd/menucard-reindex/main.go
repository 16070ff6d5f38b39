// File path: cmd/menucard-reindex/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/data/orchestrator"
)

// Offline bulk re-indexer. Unlike the server, a missing embedding provider or
// unreachable vector store is fatal here: there is nothing useful to do
// without them.
func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("reindex: .env file not loaded", "error", err)
	}

	dbPath := flag.String("db", "", "path to the SQLite database (overrides MENUCARD_DB_PATH)")
	restaurantID := flag.String("restaurant", "", "reindex a single restaurant instead of all")
	concurrency := flag.Int("concurrency", 0, "max restaurants reindexed in parallel (0 uses defaults)")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall run deadline")
	flag.Parse()

	orchCfg, err := orchestrator.LoadConfig()
	if err != nil {
		fatal("config error", err)
	}
	if trimmed := strings.TrimSpace(*dbPath); trimmed != "" {
		orchCfg.SQLitePath = trimmed
	}
	if *concurrency > 0 {
		orchCfg.IndexConcurrency = *concurrency
	}
	if _, err := os.Stat(orchCfg.SQLitePath); err != nil {
		fatal("database not found", fmt.Errorf("%s: %w", orchCfg.SQLitePath, err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	orch, err := orchestrator.New(ctx, orchCfg)
	if err != nil {
		fatal("orchestrator error", err)
	}
	defer orch.Close()

	if orch.Provider() == nil {
		fatal("precondition failed", fmt.Errorf("no embedding provider configured (set OPENAI_API_KEY or OPENROUTER_API_KEY)"))
	}
	if !orch.Vector().Available() {
		fatal("precondition failed", fmt.Errorf("vector store unreachable"))
	}

	if id := strings.TrimSpace(*restaurantID); id != "" {
		count, err := orch.Indexer().ReindexRestaurant(ctx, id)
		if err != nil {
			fatal("reindex failed", err)
		}
		fmt.Printf("reindexed restaurant %s: %d documents\n", id, count)
		return
	}

	report, err := orch.Indexer().ReindexAll(ctx)
	if err != nil {
		fatal("reindex failed", err)
	}
	fmt.Printf("reindexed %d restaurants, %d documents\n", report.Restaurants, report.Documents)
	if len(report.Failed) > 0 {
		fmt.Printf("failed: %s\n", strings.Join(report.Failed, ", "))
		os.Exit(1)
	}
}

func fatal(msg string, err error) {
	common.Logger().Error("reindex: "+msg, "error", err)
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
