package cli

import (
	"fmt"
	"os"

	"github.com/agorahq/agora/internal/config"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ Agora Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("📊 Agora Status")
		fmt.Printf("Version: %s\n", version)

		path, err := config.ConfigPath()
		if err == nil {
			if _, statErr := os.Stat(path); statErr == nil {
				fmt.Println("Config:  ✓ Found (" + path + ")")
			} else {
				fmt.Println("Config:  ✗ Not found (using defaults)")
			}
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Config error: %v\n", err)
			return
		}
		if _, err := os.Stat(cfg.Paths.Database); err == nil {
			fmt.Println("Database: ✓ Found (" + cfg.Paths.Database + ")")
		} else {
			fmt.Println("Database: ✗ Not found (created on first run)")
		}
		if cfg.Scheduler.Enabled {
			fmt.Printf("Scheduler: ✓ Enabled (every %s, batch %d)\n", cfg.Scheduler.TickInterval, cfg.Scheduler.BatchSize)
		} else {
			fmt.Println("Scheduler: ✗ Disabled")
		}
	},
}
