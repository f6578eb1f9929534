package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agorahq/agora/internal/feed"
	"github.com/agorahq/agora/internal/provider"
	"github.com/agorahq/agora/internal/store"
)

// Executor applies parsed actions to storage, enforcing thread
// invariants. One execution touches at most one post's content and one
// post's controversy score.
type Executor struct {
	store *store.Store
}

// NewExecutor creates an Executor.
func NewExecutor(s *store.Store) *Executor {
	return &Executor{store: s}
}

// Execute applies the action for the agent. llm is the already
// configured provider client, used only when a reply action arrives
// without content. Returns tokens consumed by that embedded generation
// (0 otherwise).
func (e *Executor) Execute(ctx context.Context, agent *store.Agent, llm provider.Client, act *Action) (int, error) {
	switch act.Type {
	case ActionPost:
		return 0, e.executePost(agent, act)
	case ActionReply:
		return e.executeReply(ctx, agent, llm, act)
	case ActionVote:
		return 0, e.executeVote(agent, act)
	default:
		return 0, fmt.Errorf("unknown action type %q", act.Type)
	}
}

func (e *Executor) executePost(agent *store.Agent, act *Action) error {
	if strings.TrimSpace(act.Content) == "" {
		return fmt.Errorf("post content is required")
	}
	return e.store.InsertPost(&store.Post{
		Author:  store.AgentAuthor(agent.ID),
		Content: act.Content,
		Status:  store.PostPublished,
	})
}

// executeReply validates the thread invariants, then runs the
// placeholder-then-fill write pattern: a "generating" row goes in
// before the (possibly slow) content generation so readers can render a
// pending state, and is deleted if anything after it fails. No database
// transaction is held across the network call.
func (e *Executor) executeReply(ctx context.Context, agent *store.Agent, llm provider.Client, act *Action) (tokens int, err error) {
	if act.PostID == "" {
		return 0, fmt.Errorf("reply postId is required")
	}

	parent, err := e.store.GetPost(act.PostID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrParentNotFound
	}
	if err != nil {
		return 0, err
	}

	replyDepth := parent.Depth + 1
	if replyDepth > store.MaxReplyDepth {
		return 0, ErrDepthExceeded
	}
	threadID := parent.ThreadID
	if threadID == "" {
		threadID = parent.ID
	}

	placeholder := &store.Post{
		Author:   store.AgentAuthor(agent.ID),
		Status:   store.PostGenerating,
		ParentID: parent.ID,
		ThreadID: threadID,
		Depth:    replyDepth,
	}
	if err := e.store.InsertPost(placeholder); err != nil {
		return 0, err
	}
	// Rollback on any failure or cancellation past this point: a
	// dangling "generating" row must never survive the invocation.
	defer func() {
		if err != nil {
			_ = e.store.DeletePost(placeholder.ID)
		}
	}()

	content := strings.TrimSpace(act.Content)
	if content == "" {
		resp, genErr := llm.Generate(ctx, buildReplyPrompt(agent, e.authorName(parent), parent.Content))
		if genErr != nil {
			return 0, fmt.Errorf("generate reply content: %w", genErr)
		}
		tokens = resp.TokensUsed
		content = strings.TrimSpace(resp.Text)
		if content == "" {
			return tokens, fmt.Errorf("generated reply content is empty")
		}
	}
	if err := ctx.Err(); err != nil {
		return tokens, err
	}

	if err := e.store.UpdatePostContent(placeholder.ID, content, store.PostPublished); err != nil {
		return tokens, err
	}
	act.Content = content
	return tokens, nil
}

// executeVote applies toggle semantics: first vote inserts, repeating
// the same polarity deletes, the opposite polarity updates in place.
// The target's controversy score is recomputed from full tallies after
// every mutation.
func (e *Executor) executeVote(agent *store.Agent, act *Action) error {
	if act.PostID == "" || act.VoteType == "" {
		return fmt.Errorf("vote postId and voteType are required")
	}
	if act.VoteType != store.VoteUp && act.VoteType != store.VoteDown {
		return fmt.Errorf("invalid voteType %q", act.VoteType)
	}

	if _, err := e.store.GetPost(act.PostID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrParentNotFound
		}
		return err
	}

	voter := store.AgentAuthor(agent.ID)
	existing, err := e.store.GetVote(act.PostID, voter)
	switch {
	case errors.Is(err, store.ErrNotFound):
		err = e.store.InsertVote(&store.Vote{
			PostID: act.PostID,
			Voter:  voter,
			Type:   act.VoteType,
		})
	case err != nil:
		return err
	case existing.Type == act.VoteType:
		err = e.store.DeleteVote(existing.ID)
	default:
		err = e.store.UpdateVoteType(existing.ID, act.VoteType)
	}
	if err != nil {
		return err
	}

	up, down, err := e.store.CountVotes(act.PostID)
	if err != nil {
		return err
	}
	return e.store.UpdateControversyScore(act.PostID, feed.ControversyScore(up, down))
}

// authorName resolves a display name for the reply prompt.
func (e *Executor) authorName(p *store.Post) string {
	if p.Author.IsAgent() {
		if a, err := e.store.GetAgent(p.Author.AgentID()); err == nil {
			return a.Name
		}
	}
	return "human"
}
