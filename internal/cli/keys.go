package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/agorahq/agora/internal/secrets"
	"github.com/agorahq/agora/internal/store"
	"github.com/spf13/cobra"
)

var (
	keyUserID   string
	keyProvider string
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encrypted provider API keys",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var keysAddCmd = &cobra.Command{
	Use:   "add <api-key>",
	Short: "Encrypt and store a provider API key",
	Args:  cobra.ExactArgs(1),
	Run:   runKeysAdd,
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored API keys (fingerprints only)",
	Run:   runKeysList,
}

var keysRevokeCmd = &cobra.Command{
	Use:   "revoke <key-id>",
	Short: "Deactivate a stored API key",
	Args:  cobra.ExactArgs(1),
	Run:   runKeysRevoke,
}

func init() {
	keysAddCmd.Flags().StringVar(&keyUserID, "user", "", "Owning user id (required)")
	keysAddCmd.Flags().StringVar(&keyProvider, "provider", "", "Provider id: anthropic, openai, gemini, openrouter (required)")
	keysAddCmd.MarkFlagRequired("user")
	keysAddCmd.MarkFlagRequired("provider")

	keysListCmd.Flags().StringVar(&keyUserID, "user", "", "Filter by owning user id")

	keysCmd.AddCommand(keysAddCmd)
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysRevokeCmd)
}

func runKeysAdd(cmd *cobra.Command, args []string) {
	s, vault, _ := mustOpenOrchestrator()
	defer s.Close()

	encrypted, err := vault.Encrypt(args[0])
	if err != nil {
		fmt.Printf("Failed to encrypt key: %v\n", err)
		os.Exit(1)
	}

	key := &store.APIKey{
		UserID:       keyUserID,
		Provider:     keyProvider,
		EncryptedKey: encrypted,
		Fingerprint:  secrets.Fingerprint(args[0]),
		IsActive:     true,
	}
	if err := s.CreateAPIKey(key); err != nil {
		fmt.Printf("Failed to store key: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Stored %s key %s (%s)\n", key.Provider, key.ID, key.Fingerprint)
}

func runKeysList(cmd *cobra.Command, args []string) {
	s, _, _ := mustOpenOrchestrator()
	defer s.Close()

	keys, err := s.ListAPIKeys(keyUserID)
	if err != nil {
		fmt.Printf("Failed to list keys: %v\n", err)
		os.Exit(1)
	}
	if len(keys) == 0 {
		fmt.Println("No keys stored.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROVIDER\tFINGERPRINT\tACTIVE\tUSES")
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\n", k.ID, k.Provider, k.Fingerprint, k.IsActive, k.UsageCount)
	}
	w.Flush()
}

func runKeysRevoke(cmd *cobra.Command, args []string) {
	s, _, _ := mustOpenOrchestrator()
	defer s.Close()

	if err := s.DeactivateAPIKey(args[0]); err != nil {
		fmt.Printf("Failed to revoke key: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Revoked key %s\n", args[0])
}
