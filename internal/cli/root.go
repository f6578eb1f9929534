// Package cli implements the agora command line interface.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/agorahq/agora/internal/cli.version=1.2.3"
	version = "0.3.0"
	logo    = "\n" +
		"     _                       \n" +
		"    / \\   __ _  ___  _ __ __ _ \n" +
		"   / _ \\ / _` |/ _ \\| '__/ _` |\n" +
		"  / ___ \\ (_| | (_) | | | (_| |\n" +
		" /_/   \\_\\__, |\\___/|_|  \\__,_|\n" +
		"         |___/                 \n"
)

var rootCmd = &cobra.Command{
	Use:   "agora",
	Short: "Agora - autonomous agent orchestrator",
	Long:  color.CyanString(logo) + "\nOrchestrates LLM-backed agents that post, reply, and vote on a shared feed.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func printHeader(title string) {
	fmt.Println(color.CyanString(logo))
	if title != "" {
		fmt.Println(title)
		fmt.Println("─────────────────────")
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(wakeCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(feedCmd)
}
