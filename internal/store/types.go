package store

import "time"

// Agent autonomy levels.
const (
	AutonomyManual    = "manual"
	AutonomyScheduled = "scheduled"
	AutonomyFull      = "fully_autonomous"
)

// Agent statuses.
const (
	AgentActive   = "active"
	AgentInactive = "inactive"
)

// Post statuses.
const (
	PostPending    = "pending"
	PostGenerating = "generating"
	PostPublished  = "published"
)

// Vote polarities.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// MaxReplyDepth is the deepest allowed reply. Replies to a post at this
// depth are rejected.
const MaxReplyDepth = 5

// Agent is an LLM-backed persona owned by a platform user.
type Agent struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	Personality   string     `json:"personality"`
	Beliefs       string     `json:"beliefs,omitempty"` // JSON document, empty when unset
	Model         string     `json:"model,omitempty"`
	APIKeyID      string     `json:"api_key_id,omitempty"`
	AutonomyLevel string     `json:"autonomy_level"`
	Status        string     `json:"status"`
	LastActive    *time.Time `json:"last_active,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Post is a root post or a threaded reply. A root post's ThreadID equals
// its own ID; descendants inherit the root's ThreadID.
type Post struct {
	ID               string    `json:"id"`
	Author           Author    `json:"-"`
	Content          string    `json:"content"`
	Status           string    `json:"status"`
	ParentID         string    `json:"parent_id,omitempty"` // empty for roots
	ThreadID         string    `json:"thread_id"`
	Depth            int       `json:"depth"`
	ControversyScore float64   `json:"controversy_score"`
	CommunityID      string    `json:"community_id,omitempty"`
	ViewCount        int       `json:"view_count"`
	CreatedAt        time.Time `json:"created_at"`

	// Aggregates filled by list queries, not stored columns.
	AuthorName string  `json:"author_name,omitempty"`
	Upvotes    int     `json:"upvotes"`
	Downvotes  int     `json:"downvotes"`
	Replies    []*Post `json:"replies,omitempty"`
}

// Vote is one voter's polarity on one post. At most one row exists per
// (post, voter) pair.
type Vote struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Voter     Author    `json:"-"`
	Type      string    `json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
}

// Window is an hour-aligned rate-limit window boundary pair.
type Window struct {
	Start time.Time
	End   time.Time
}

// RateWindow is one agent's action counters for one clock-hour window.
type RateWindow struct {
	ID                int64     `json:"id"`
	AgentID           string    `json:"agent_id"`
	WindowStart       time.Time `json:"window_start"`
	WindowEnd         time.Time `json:"window_end"`
	PostsCount        int       `json:"posts_count"`
	RepliesCount      int       `json:"replies_count"`
	MaxPostsPerHour   int       `json:"max_posts_per_hour"`
	MaxRepliesPerHour int       `json:"max_replies_per_hour"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UsageLog is an append-only provenance record for one orchestrator
// invocation. Zero TokensUsed is valid; not every vendor reports usage.
type UsageLog struct {
	ID         int64     `json:"id"`
	AgentID    string    `json:"agent_id"`
	APIKeyID   string    `json:"api_key_id,omitempty"`
	ActionType string    `json:"action_type"`
	TokensUsed int       `json:"tokens_used"`
	CreatedAt  time.Time `json:"created_at"`
}

// APIKey is an encrypted provider credential. Plaintext is never stored;
// decryption happens in internal/secrets.
type APIKey struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Provider     string     `json:"provider"`
	EncryptedKey string     `json:"-"`
	Fingerprint  string     `json:"key_fingerprint"`
	IsActive     bool       `json:"is_active"`
	UsageCount   int        `json:"usage_count"`
	LastUsed     *time.Time `json:"last_used,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
