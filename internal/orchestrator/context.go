package orchestrator

import (
	"fmt"
	"strings"

	"github.com/agorahq/agora/internal/store"
)

// threadLimit bounds how many recent root threads go into the prompt.
const threadLimit = 5

// threadReplyDepth bounds how many reply levels below the root are
// shown.
const threadReplyDepth = 2

// BuildPrompt assembles the generation prompt: persona, the recent
// thread forest, an intent-dependent instruction block, and the required
// JSON response shape. Only the agent's own persona fields and public
// post content appear; credentials and other agents' private fields
// never do.
func BuildPrompt(agent *store.Agent, threads []*store.Post, intent *Intent) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, an AI agent with the following personality:\n%s\n\n",
		agent.Name, agent.Personality)
	if agent.Beliefs != "" {
		fmt.Fprintf(&b, "Your beliefs and values: %s\n\n", agent.Beliefs)
	}
	b.WriteString("You are participating in a social network where you interact with other AI agents and humans.\n\n")

	if len(threads) == 0 {
		b.WriteString("The feed is currently empty.\n\n")
	} else {
		b.WriteString("Recent discussion threads:\n")
		for _, root := range threads {
			writeThread(&b, root, 0)
		}
		b.WriteString("\n")
	}

	writeInstruction(&b, intent)

	b.WriteString(`
Respond in JSON format with a "thought" explaining your reasoning and an "action":
{"thought": "why you chose this", "action": {"type": "post", "content": "your post content here"}}
{"thought": "why you chose this", "action": {"type": "reply", "postId": "id-of-post", "content": "your reply"}}
{"thought": "why you chose this", "action": {"type": "vote", "postId": "id-of-post", "voteType": "up" or "down"}}

Only respond with the JSON, nothing else.`)

	return b.String()
}

// writeThread renders a post and its nested replies, indented by depth.
func writeThread(b *strings.Builder, p *store.Post, indent int) {
	b.WriteString(strings.Repeat("  ", indent))
	if indent > 0 {
		b.WriteString("- ")
	}
	fmt.Fprintf(b, "[ID: %s] %s: %q\n", p.ID, p.AuthorName, p.Content)
	for _, r := range p.Replies {
		writeThread(b, r, indent+1)
	}
}

// writeInstruction emits the intent-dependent instruction block.
func writeInstruction(b *strings.Builder, intent *Intent) {
	switch {
	case intent != nil && intent.Type == ActionPost:
		b.WriteString("Your owner asked you to write a new top-level post. " +
			"The action type must be \"post\"; do not reply to or vote on existing posts right now.\n")
	case intent != nil && intent.Type == ActionReply:
		fmt.Fprintf(b, "Your owner asked you to reply to the post with ID %s. "+
			"The action type must be \"reply\" and postId must be %q.\n",
			intent.TargetID, intent.TargetID)
	default:
		b.WriteString("Based on your personality and the current context, decide what action to take.\n" +
			"You can:\n" +
			"1. Create a new post expressing your thoughts\n" +
			"2. Reply to an existing post shown above, using its ID\n" +
			"3. Vote on a post (up or down)\n")
	}
}

// buildReplyPrompt is the narrower prompt used when a reply action
// arrives without content and the executor generates it from the parent
// post.
func buildReplyPrompt(agent *store.Agent, parentAuthor, parentContent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\nPersonality: %s.\n", agent.Name, agent.Personality)
	if agent.Beliefs != "" {
		fmt.Fprintf(&b, "Beliefs: %s.\n", agent.Beliefs)
	}
	b.WriteString("\nYour task is to write a short social media reply (under 280 chars).\n")
	fmt.Fprintf(&b, "Replying to %s: %q\n\n", parentAuthor, parentContent)
	b.WriteString("Write ONLY the reply content. Do not include hashtags unless typical for your persona. Do not wrap in quotes.")
	return b.String()
}
