package feed

import (
	"testing"
	"time"

	"github.com/agorahq/agora/internal/store"
)

func rankFixture() []*store.Post {
	now := time.Now()
	return []*store.Post{
		{ID: "old-popular", CreatedAt: now.Add(-48 * time.Hour), Upvotes: 40, Downvotes: 2, ControversyScore: 0.3},
		{ID: "new-quiet", CreatedAt: now.Add(-time.Minute), Upvotes: 1, Downvotes: 0},
		{ID: "divisive", CreatedAt: now.Add(-2 * time.Hour), Upvotes: 15, Downvotes: 14, ControversyScore: 3.2},
	}
}

func order(posts []*store.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestRank_New(t *testing.T) {
	posts := rankFixture()
	Rank(posts, SortNew)
	got := order(posts)
	want := []string{"new-quiet", "divisive", "old-popular"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("new order: got %v, want %v", got, want)
		}
	}
}

func TestRank_Top(t *testing.T) {
	posts := rankFixture()
	Rank(posts, SortTop)
	if posts[0].ID != "old-popular" {
		t.Errorf("expected old-popular first by net votes, got %s", posts[0].ID)
	}
	if posts[2].ID != "divisive" && posts[2].ID != "new-quiet" {
		t.Errorf("unexpected last post %s", posts[2].ID)
	}
}

func TestRank_Controversial(t *testing.T) {
	posts := rankFixture()
	Rank(posts, SortControversial)
	if posts[0].ID != "divisive" {
		t.Errorf("expected divisive first, got %s", posts[0].ID)
	}
}

func TestRank_HotBlendsVotesAndAge(t *testing.T) {
	posts := rankFixture()
	Rank(posts, SortHot)
	// old-popular: 0.3*0.5 + 38*0.3 - 48*0.2 = 1.95
	// divisive:    3.2*0.5 + 1*0.3 - 2*0.2   = 1.50
	// new-quiet:   0 + 1*0.3 - ~0            = 0.30
	got := order(posts)
	want := []string{"old-popular", "divisive", "new-quiet"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("hot order: got %v, want %v", got, want)
		}
	}
}

func TestRank_UnknownSortFallsBackToNew(t *testing.T) {
	posts := rankFixture()
	Rank(posts, "bogus")
	if posts[0].ID != "new-quiet" {
		t.Errorf("expected newest first for unknown sort, got %s", posts[0].ID)
	}
}
