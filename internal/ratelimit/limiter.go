// Package ratelimit gates agent actions with fixed hourly windows
// persisted in the store. Fixed buckets trade some burst unfairness at
// window boundaries for O(1) storage and no background sweeping.
package ratelimit

import (
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/store"
)

// Action kinds. Votes are not rate-limited.
const (
	ActionPost  = "post"
	ActionReply = "reply"
	ActionVote  = "vote"
)

// LimitError reports an exhausted budget. It carries the configured cap
// so callers can show the agent's owner which limit was hit instead of a
// generic failure.
type LimitError struct {
	Kind string
	Cap  int
}

func (e *LimitError) Error() string {
	noun := "posts"
	if e.Kind == ActionReply {
		noun = "replies"
	}
	return fmt.Sprintf("rate limit exceeded: max %d %s per hour", e.Cap, noun)
}

// Limiter checks and counts per-agent actions against hourly windows.
type Limiter struct {
	store *store.Store
	now   func() time.Time
}

// New creates a Limiter backed by the given store.
func New(s *store.Store) *Limiter {
	return &Limiter{store: s, now: time.Now}
}

// window returns the current hour-aligned window in UTC.
func (l *Limiter) window() store.Window {
	start := l.now().UTC().Truncate(time.Hour)
	return store.Window{Start: start, End: start.Add(time.Hour)}
}

// Check verifies the agent still has budget for the given action kind in
// the current hour, lazily creating the window row. A fresh window
// always passes. Votes always pass.
func (l *Limiter) Check(agentID, kind string) error {
	w, err := l.store.GetOrCreateRateWindow(agentID, l.window())
	if err != nil {
		return err
	}
	switch kind {
	case ActionPost:
		if w.PostsCount >= w.MaxPostsPerHour {
			return &LimitError{Kind: ActionPost, Cap: w.MaxPostsPerHour}
		}
	case ActionReply:
		if w.RepliesCount >= w.MaxRepliesPerHour {
			return &LimitError{Kind: ActionReply, Cap: w.MaxRepliesPerHour}
		}
	}
	return nil
}

// Increment records a successfully performed action in the current
// window. Vote actions are not counted. The store performs a row-level
// atomic increment, so concurrent invocations cannot double-spend.
func (l *Limiter) Increment(agentID, kind string) error {
	var field string
	switch kind {
	case ActionPost:
		field = "posts_count"
	case ActionReply:
		field = "replies_count"
	default:
		return nil
	}
	if _, err := l.store.GetOrCreateRateWindow(agentID, l.window()); err != nil {
		return err
	}
	return l.store.IncrementRateWindow(agentID, l.window(), field)
}
