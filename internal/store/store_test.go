package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestAgent(t *testing.T, s *Store, name string) *Agent {
	t.Helper()
	a := &Agent{UserID: "user-1", Name: name, Personality: "curious"}
	if err := s.CreateAgent(a); err != nil {
		t.Fatalf("CreateAgent() error: %v", err)
	}
	return a
}

func TestCreateAgent_Defaults(t *testing.T) {
	s := newTestStore(t)
	a := newTestAgent(t, s, "ada")

	if a.ID == "" {
		t.Error("expected generated id")
	}
	got, err := s.GetAgent(a.ID)
	if err != nil {
		t.Fatalf("GetAgent() error: %v", err)
	}
	if got.AutonomyLevel != AutonomyManual {
		t.Errorf("expected default autonomy %q, got %q", AutonomyManual, got.AutonomyLevel)
	}
	if got.Status != AgentActive {
		t.Errorf("expected default status %q, got %q", AgentActive, got.Status)
	}
	if got.LastActive != nil {
		t.Error("expected nil last_active for a fresh agent")
	}
}

func TestGetAgent_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetAgent("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListEligibleAgents_OrderAndFilter(t *testing.T) {
	s := newTestStore(t)

	manual := &Agent{UserID: "u", Name: "manual", AutonomyLevel: AutonomyManual}
	inactive := &Agent{UserID: "u", Name: "inactive", AutonomyLevel: AutonomyFull, Status: AgentInactive}
	fresh := &Agent{UserID: "u", Name: "fresh", AutonomyLevel: AutonomyScheduled}
	stale := &Agent{UserID: "u", Name: "stale", AutonomyLevel: AutonomyFull}
	for _, a := range []*Agent{manual, inactive, fresh, stale} {
		if err := s.CreateAgent(a); err != nil {
			t.Fatalf("CreateAgent(%s) error: %v", a.Name, err)
		}
	}
	if err := s.TouchAgentLastActive(stale.ID); err != nil {
		t.Fatalf("TouchAgentLastActive() error: %v", err)
	}

	got, err := s.ListEligibleAgents(5)
	if err != nil {
		t.Fatalf("ListEligibleAgents() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 eligible agents, got %d", len(got))
	}
	// Never-active agents sort before previously active ones.
	if got[0].Name != "fresh" || got[1].Name != "stale" {
		t.Errorf("expected [fresh stale], got [%s %s]", got[0].Name, got[1].Name)
	}
}

func TestInsertPost_RootSelfAssignsThread(t *testing.T) {
	s := newTestStore(t)
	a := newTestAgent(t, s, "poster")

	p := &Post{Author: AgentAuthor(a.ID), Content: "first thoughts"}
	if err := s.InsertPost(p); err != nil {
		t.Fatalf("InsertPost() error: %v", err)
	}

	got, err := s.GetPost(p.ID)
	if err != nil {
		t.Fatalf("GetPost() error: %v", err)
	}
	if got.ThreadID != got.ID {
		t.Errorf("root thread_id = %q, want own id %q", got.ThreadID, got.ID)
	}
	if got.Depth != 0 {
		t.Errorf("root depth = %d, want 0", got.Depth)
	}
	if got.Status != PostPublished {
		t.Errorf("status = %q, want published", got.Status)
	}
}

func TestInsertPost_RequiresAuthor(t *testing.T) {
	s := newTestStore(t)
	if err := s.InsertPost(&Post{Content: "anonymous"}); err == nil {
		t.Error("expected error for post without author")
	}
}

func TestUpdatePostContent_PublishesPlaceholder(t *testing.T) {
	s := newTestStore(t)
	a := newTestAgent(t, s, "replier")
	root := &Post{Author: AgentAuthor(a.ID), Content: "root"}
	if err := s.InsertPost(root); err != nil {
		t.Fatalf("InsertPost(root) error: %v", err)
	}

	placeholder := &Post{
		Author:   AgentAuthor(a.ID),
		Status:   PostGenerating,
		ParentID: root.ID,
		ThreadID: root.ThreadID,
		Depth:    1,
	}
	if err := s.InsertPost(placeholder); err != nil {
		t.Fatalf("InsertPost(placeholder) error: %v", err)
	}

	got, err := s.GetPost(placeholder.ID)
	if err != nil {
		t.Fatalf("GetPost() error: %v", err)
	}
	if got.Status != PostGenerating || got.Content != "" {
		t.Errorf("placeholder = (%q, %q), want (generating, empty)", got.Status, got.Content)
	}
	if got.ThreadID != root.ID {
		t.Errorf("reply thread_id = %q, want root id %q", got.ThreadID, root.ID)
	}

	if err := s.UpdatePostContent(placeholder.ID, "my reply", PostPublished); err != nil {
		t.Fatalf("UpdatePostContent() error: %v", err)
	}
	got, err = s.GetPost(placeholder.ID)
	if err != nil {
		t.Fatalf("GetPost() after publish error: %v", err)
	}
	if got.Status != PostPublished || got.Content != "my reply" {
		t.Errorf("published = (%q, %q), want (published, my reply)", got.Status, got.Content)
	}
}

func TestListRecentThreads_NestsRepliesAndSkipsPlaceholders(t *testing.T) {
	s := newTestStore(t)
	a := newTestAgent(t, s, "talker")

	root := &Post{Author: AgentAuthor(a.ID), Content: "root", CreatedAt: time.Now().Add(-time.Hour)}
	if err := s.InsertPost(root); err != nil {
		t.Fatalf("InsertPost(root) error: %v", err)
	}
	reply := &Post{Author: AgentAuthor(a.ID), Content: "reply", ParentID: root.ID, ThreadID: root.ThreadID, Depth: 1}
	if err := s.InsertPost(reply); err != nil {
		t.Fatalf("InsertPost(reply) error: %v", err)
	}
	pending := &Post{Author: AgentAuthor(a.ID), Status: PostGenerating, ParentID: root.ID, ThreadID: root.ThreadID, Depth: 1}
	if err := s.InsertPost(pending); err != nil {
		t.Fatalf("InsertPost(pending) error: %v", err)
	}

	threads, err := s.ListRecentThreads(5, 2)
	if err != nil {
		t.Fatalf("ListRecentThreads() error: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}
	if len(threads[0].Replies) != 1 {
		t.Fatalf("expected 1 visible reply, got %d", len(threads[0].Replies))
	}
	if threads[0].Replies[0].ID != reply.ID {
		t.Errorf("unexpected reply %s", threads[0].Replies[0].ID)
	}
	if threads[0].AuthorName != "talker" {
		t.Errorf("author name = %q, want talker", threads[0].AuthorName)
	}
}

func TestListRootPosts_ResolvesAuthorNames(t *testing.T) {
	s := newTestStore(t)
	a := newTestAgent(t, s, "writer")

	root := &Post{Author: AgentAuthor(a.ID), Content: "root"}
	if err := s.InsertPost(root); err != nil {
		t.Fatalf("InsertPost(root) error: %v", err)
	}
	reply := &Post{Author: AgentAuthor(a.ID), Content: "reply", ParentID: root.ID, ThreadID: root.ThreadID, Depth: 1}
	if err := s.InsertPost(reply); err != nil {
		t.Fatalf("InsertPost(reply) error: %v", err)
	}

	posts, err := s.ListRootPosts(10)
	if err != nil {
		t.Fatalf("ListRootPosts() error: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1 (replies excluded)", len(posts))
	}
	if posts[0].AuthorName != "writer" {
		t.Errorf("author name = %q, want writer", posts[0].AuthorName)
	}
}

func TestVotes_ToggleLifecycle(t *testing.T) {
	s := newTestStore(t)
	a := newTestAgent(t, s, "voter")
	post := &Post{Author: AgentAuthor(a.ID), Content: "vote on me"}
	if err := s.InsertPost(post); err != nil {
		t.Fatalf("InsertPost() error: %v", err)
	}
	voter := AgentAuthor(a.ID)

	if _, err := s.GetVote(post.ID, voter); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before voting, got %v", err)
	}

	v := &Vote{PostID: post.ID, Voter: voter, Type: VoteUp}
	if err := s.InsertVote(v); err != nil {
		t.Fatalf("InsertVote() error: %v", err)
	}
	up, down, err := s.CountVotes(post.ID)
	if err != nil || up != 1 || down != 0 {
		t.Fatalf("CountVotes() = (%d, %d, %v), want (1, 0, nil)", up, down, err)
	}

	// A second row for the same voter violates the unique index.
	dup := &Vote{PostID: post.ID, Voter: voter, Type: VoteDown}
	if err := s.InsertVote(dup); err == nil {
		t.Error("expected unique violation for duplicate voter")
	}

	if err := s.UpdateVoteType(v.ID, VoteDown); err != nil {
		t.Fatalf("UpdateVoteType() error: %v", err)
	}
	up, down, _ = s.CountVotes(post.ID)
	if up != 0 || down != 1 {
		t.Errorf("after flip: (%d, %d), want (0, 1)", up, down)
	}

	if err := s.DeleteVote(v.ID); err != nil {
		t.Fatalf("DeleteVote() error: %v", err)
	}
	up, down, _ = s.CountVotes(post.ID)
	if up != 0 || down != 0 {
		t.Errorf("after delete: (%d, %d), want (0, 0)", up, down)
	}
}

func TestRateWindows_CreateAndIncrement(t *testing.T) {
	s := newTestStore(t)
	a := newTestAgent(t, s, "limited")
	start := time.Now().UTC().Truncate(time.Hour)
	w := Window{Start: start, End: start.Add(time.Hour)}

	rw, err := s.GetOrCreateRateWindow(a.ID, w)
	if err != nil {
		t.Fatalf("GetOrCreateRateWindow() error: %v", err)
	}
	if rw.PostsCount != 0 || rw.MaxPostsPerHour != 10 || rw.MaxRepliesPerHour != 20 {
		t.Errorf("fresh window = %+v, want zero counts and default caps", rw)
	}

	if err := s.IncrementRateWindow(a.ID, w, "posts_count"); err != nil {
		t.Fatalf("IncrementRateWindow() error: %v", err)
	}
	rw, err = s.GetOrCreateRateWindow(a.ID, w)
	if err != nil {
		t.Fatalf("re-read window error: %v", err)
	}
	if rw.PostsCount != 1 {
		t.Errorf("posts_count = %d, want 1", rw.PostsCount)
	}

	if err := s.IncrementRateWindow(a.ID, w, "banned_field"); err == nil {
		t.Error("expected error for unknown counter field")
	}
}

func TestUsageLogs_InsertAndTotal(t *testing.T) {
	s := newTestStore(t)
	a := newTestAgent(t, s, "logged")

	for _, tokens := range []int{100, 0, 50} {
		if err := s.InsertUsageLog(&UsageLog{AgentID: a.ID, ActionType: "post", TokensUsed: tokens}); err != nil {
			t.Fatalf("InsertUsageLog() error: %v", err)
		}
	}
	logs, err := s.ListUsageLogs(a.ID, 10)
	if err != nil {
		t.Fatalf("ListUsageLogs() error: %v", err)
	}
	if len(logs) != 3 {
		t.Errorf("expected 3 logs, got %d", len(logs))
	}
	total, err := s.TotalTokensUsed(a.ID)
	if err != nil {
		t.Fatalf("TotalTokensUsed() error: %v", err)
	}
	if total != 150 {
		t.Errorf("total tokens = %d, want 150", total)
	}
}

func TestAPIKeys_ActiveLookup(t *testing.T) {
	s := newTestStore(t)
	k := &APIKey{UserID: "u", Provider: "anthropic", EncryptedKey: "blob", Fingerprint: "abcd1234...wxyz", IsActive: true}
	if err := s.CreateAPIKey(k); err != nil {
		t.Fatalf("CreateAPIKey() error: %v", err)
	}

	got, err := s.GetActiveAPIKey(k.ID)
	if err != nil {
		t.Fatalf("GetActiveAPIKey() error: %v", err)
	}
	if got.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", got.Provider)
	}

	if err := s.DeactivateAPIKey(k.ID); err != nil {
		t.Fatalf("DeactivateAPIKey() error: %v", err)
	}
	if _, err := s.GetActiveAPIKey(k.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for inactive key, got %v", err)
	}
}
