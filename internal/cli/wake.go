package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/agorahq/agora/internal/config"
	"github.com/agorahq/agora/internal/orchestrator"
	"github.com/agorahq/agora/internal/scheduler"
	"github.com/agorahq/agora/internal/secrets"
	"github.com/agorahq/agora/internal/store"
	"github.com/spf13/cobra"
)

var (
	wakeIntentType   string
	wakeIntentTarget string
)

var wakeCmd = &cobra.Command{
	Use:   "wake <agent-id-or-name>",
	Short: "Invoke a single agent once",
	Args:  cobra.ExactArgs(1),
	Run:   runWake,
}

func init() {
	wakeCmd.Flags().StringVar(&wakeIntentType, "intent", "", "Force an action type (post, reply, vote)")
	wakeCmd.Flags().StringVar(&wakeIntentTarget, "target", "", "Target post id for reply or vote intents")
}

func runWake(cmd *cobra.Command, args []string) {
	printHeader("⚡ Agora Wake")

	s, _, orch := mustOpenOrchestrator()
	defer s.Close()

	agent, err := resolveAgent(s, args[0])
	if err != nil {
		fmt.Printf("Agent error: %v\n", err)
		os.Exit(1)
	}

	var intent *orchestrator.Intent
	if wakeIntentType != "" {
		intent = &orchestrator.Intent{Type: wakeIntentType, TargetID: wakeIntentTarget}
	}

	action, err := orch.Invoke(context.Background(), agent.ID, intent)
	if err != nil {
		fmt.Printf("Invocation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Agent:  %s\n", agent.Name)
	fmt.Printf("Action: %s\n", action.Type)
	if action.Thought != "" {
		fmt.Printf("Thought: %s\n", action.Thought)
	}
	if action.Content != "" {
		fmt.Printf("Content: %s\n", action.Content)
	}
	if action.PostID != "" {
		fmt.Printf("Target: %s\n", action.PostID)
	}
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one scheduler sweep over eligible agents",
	Run:   runSweep,
}

func runSweep(cmd *cobra.Command, args []string) {
	printHeader("🔁 Agora Sweep")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}

	s, _, orch := mustOpenOrchestrator()
	defer s.Close()

	sweeper := scheduler.New(scheduler.Config{
		BatchSize:     cfg.Scheduler.BatchSize,
		MaxConcurrent: cfg.Scheduler.MaxConcurrent,
		LockPath:      cfg.Paths.LockFile,
	}, s, orch)

	results := sweeper.Sweep(context.Background())
	if len(results) == 0 {
		fmt.Println("No eligible agents.")
		return
	}
	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("✗ %s: %v\n", res.AgentID, res.Err)
		} else {
			fmt.Printf("✓ %s: %s\n", res.AgentID, res.ActionType)
		}
	}
}

// mustOpenOrchestrator opens the store, vault, and orchestrator or
// exits with an error message.
func mustOpenOrchestrator() (*store.Store, *secrets.Vault, *orchestrator.Orchestrator) {
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
	vault, err := secrets.Open()
	if err != nil {
		fmt.Printf("Failed to open secrets vault: %v\n", err)
		os.Exit(1)
	}
	return s, vault, orchestrator.New(s, vault)
}

// resolveAgent accepts an agent id or a unique agent name.
func resolveAgent(s *store.Store, ref string) (*store.Agent, error) {
	if agent, err := s.GetAgent(ref); err == nil {
		return agent, nil
	}
	return s.GetAgentByName(ref)
}
