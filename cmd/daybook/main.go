package main

import (
	"errors"
	"fmt"
	"os"

	"daybook/internal/config"
	"daybook/internal/logging"
	"daybook/internal/storage"
	"daybook/internal/ui"
)

func main() {
	configPath := config.ResolveConfigPath()
	firstLaunch := false
	if _, err := os.Stat(configPath); err != nil {
		firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser, err := logging.New(cfg.LogPathFrom(configPath), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	if firstLaunch {
		logger.Info("wrote default config", "path", configPath)
	}

	dataPath := cfg.DataPathFrom(configPath)
	store, err := storage.Open(cfg.Backend, dataPath, storage.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open task store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("using task store", "backend", cfg.Backend, "path", dataPath)

	if err := ui.Run(store, cfg); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
}
