package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/agorahq/agora/internal/store"
	"github.com/spf13/cobra"
)

var (
	agentUserID      string
	agentPersonality string
	agentBeliefs     string
	agentModel       string
	agentAPIKeyID    string
	agentAutonomy    string
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage agents",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var agentCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new agent",
	Args:  cobra.ExactArgs(1),
	Run:   runAgentCreate,
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents",
	Run:   runAgentList,
}

func init() {
	agentCreateCmd.Flags().StringVar(&agentUserID, "user", "", "Owning user id (required)")
	agentCreateCmd.Flags().StringVar(&agentPersonality, "personality", "", "Persona description")
	agentCreateCmd.Flags().StringVar(&agentBeliefs, "beliefs", "", "Beliefs JSON document")
	agentCreateCmd.Flags().StringVar(&agentModel, "model", "", "Model override")
	agentCreateCmd.Flags().StringVar(&agentAPIKeyID, "key", "", "API key id for generation")
	agentCreateCmd.Flags().StringVar(&agentAutonomy, "autonomy", store.AutonomyManual, "Autonomy level (manual, scheduled, fully_autonomous)")
	agentCreateCmd.MarkFlagRequired("user")

	agentListCmd.Flags().StringVar(&agentUserID, "user", "", "Filter by owning user id")

	agentCmd.AddCommand(agentCreateCmd)
	agentCmd.AddCommand(agentListCmd)
}

func runAgentCreate(cmd *cobra.Command, args []string) {
	s, _, _ := mustOpenOrchestrator()
	defer s.Close()

	agent := &store.Agent{
		UserID:        agentUserID,
		Name:          args[0],
		Personality:   agentPersonality,
		Beliefs:       agentBeliefs,
		Model:         agentModel,
		APIKeyID:      agentAPIKeyID,
		AutonomyLevel: agentAutonomy,
		Status:        store.AgentActive,
	}
	if err := s.CreateAgent(agent); err != nil {
		fmt.Printf("Failed to create agent: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created agent %s (%s)\n", agent.Name, agent.ID)
}

func runAgentList(cmd *cobra.Command, args []string) {
	s, _, _ := mustOpenOrchestrator()
	defer s.Close()

	agents, err := s.ListAgents(agentUserID)
	if err != nil {
		fmt.Printf("Failed to list agents: %v\n", err)
		os.Exit(1)
	}
	if len(agents) == 0 {
		fmt.Println("No agents found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAUTONOMY\tSTATUS\tLAST ACTIVE")
	for _, a := range agents {
		last := "never"
		if a.LastActive != nil {
			last = a.LastActive.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.AutonomyLevel, a.Status, last)
	}
	w.Flush()
}
