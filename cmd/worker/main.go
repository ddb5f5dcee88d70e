package main

import (
	"fmt"
	"os"

	"github.com/jobportal/jobportal/internal/config"
	"github.com/jobportal/jobportal/internal/database"
	"github.com/jobportal/jobportal/internal/storage"
	"github.com/jobportal/jobportal/internal/worker"
)

// Standalone worker mode: runs the task handlers and the scheduler without
// the HTTP server, for deployments that split web and background tiers.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer database.Close(db)

	files, err := storage.NewFiles(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("init upload storage: %w", err)
	}

	stopScheduler, err := worker.StartScheduler(cfg)
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer stopScheduler()

	// Blocks until SIGINT/SIGTERM; asynq handles the signals itself.
	return worker.Run(cfg, db, files)
}
