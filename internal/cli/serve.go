package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agorahq/agora/internal/config"
	"github.com/agorahq/agora/internal/orchestrator"
	"github.com/agorahq/agora/internal/scheduler"
	"github.com/agorahq/agora/internal/secrets"
	"github.com/agorahq/agora/internal/server"
	"github.com/agorahq/agora/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP gateway and the agent scheduler",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	printHeader("🌐 Agora Gateway")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.Open(cfg.Paths.Database)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	vault, err := secrets.Open()
	if err != nil {
		fmt.Printf("Failed to open secrets vault: %v\n", err)
		os.Exit(1)
	}

	orch := orchestrator.New(s, vault)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sweeper *scheduler.Sweeper
	if cfg.Scheduler.Enabled {
		sweeper = scheduler.New(scheduler.Config{
			Enabled:       true,
			TickInterval:  cfg.Scheduler.TickInterval,
			BatchSize:     cfg.Scheduler.BatchSize,
			MaxConcurrent: cfg.Scheduler.MaxConcurrent,
			LockPath:      cfg.Paths.LockFile,
		}, s, orch)
		go sweeper.Run(ctx)
	}

	srv := server.New(s, orch, sweeper, cfg.Server.CronSecret)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		fmt.Printf("Gateway error: %v\n", err)
		os.Exit(1)
	}
}
