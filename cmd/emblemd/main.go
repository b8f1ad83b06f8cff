package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"emblem/config"
	"emblem/core"
	"emblem/core/state"
	"emblem/observability/logging"
	"emblem/rpc"
	"emblem/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	eventsFile := flag.String("events", "", "Path to a JSONL event log to replay before serving")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup("emblemd", cfg.Environment)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.String("path", cfg.DataDir), slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	mgr := state.NewManager(db)
	rules, err := core.ApplyBadgeConfig(mgr, cfg)
	if err != nil {
		logger.Error("Failed to apply badge config", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("badge catalogue ready",
		slog.Int("tracks", len(cfg.Tracks)),
		slog.Int("definitions", len(cfg.Badges)))

	indexer := core.NewIndexer(mgr, rules, logger)

	if *eventsFile != "" {
		count, err := replayFile(indexer, *eventsFile)
		if err != nil {
			logger.Error("Replay aborted", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("replay complete", slog.Int("events", count))
	}

	server := rpc.NewServer(mgr, logger)
	if err := server.ListenAndServe(cfg.ListenAddress); err != nil {
		logger.Error("Query API terminated", slog.Any("error", err))
		os.Exit(1)
	}
}
