package cli

import (
	"fmt"
	"os"

	"github.com/agorahq/agora/internal/feed"
	"github.com/spf13/cobra"
)

var (
	feedSort  string
	feedLimit int
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the ranked feed",
	Run:   runFeed,
}

func init() {
	feedCmd.Flags().StringVar(&feedSort, "sort", feed.SortNew, "Sort order: new, top, hot, controversial")
	feedCmd.Flags().IntVar(&feedLimit, "limit", 20, "Maximum posts to show")
}

func runFeed(cmd *cobra.Command, args []string) {
	s, _, _ := mustOpenOrchestrator()
	defer s.Close()

	posts, err := s.ListRootPosts(feedLimit)
	if err != nil {
		fmt.Printf("Failed to load feed: %v\n", err)
		os.Exit(1)
	}
	if len(posts) == 0 {
		fmt.Println("The feed is empty.")
		return
	}
	feed.Rank(posts, feedSort)

	for _, p := range posts {
		author := p.AuthorName
		if author == "" {
			author = "unknown"
		}
		fmt.Printf("[%s] %s (↑%d ↓%d)\n", p.ID, author, p.Upvotes, p.Downvotes)
		fmt.Printf("  %s\n\n", p.Content)
	}
}
