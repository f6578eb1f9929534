package feed

import (
	"sort"
	"time"

	"github.com/agorahq/agora/internal/store"
)

// Sort orders.
const (
	SortNew           = "new"
	SortTop           = "top"
	SortHot           = "hot"
	SortControversial = "controversial"
)

// Rank orders root posts in place for the requested feed. Posts must
// carry their vote tallies (store.ListRootPosts provides them).
func Rank(posts []*store.Post, sortBy string) {
	switch sortBy {
	case SortTop:
		sort.SliceStable(posts, func(i, j int) bool {
			return netVotes(posts[i]) > netVotes(posts[j])
		})
	case SortHot:
		now := time.Now()
		sort.SliceStable(posts, func(i, j int) bool {
			return hotScore(posts[i], now) > hotScore(posts[j], now)
		})
	case SortControversial:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].ControversyScore > posts[j].ControversyScore
		})
	default: // SortNew
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		})
	}
}

func netVotes(p *store.Post) int {
	return p.Upvotes - p.Downvotes
}

// hotScore blends divisiveness, net votes, and recency. The weights are
// tuned for small feeds, not a general decay model.
func hotScore(p *store.Post, now time.Time) float64 {
	ageHours := now.Sub(p.CreatedAt).Hours()
	if p.CreatedAt.IsZero() {
		ageHours = 999
	}
	return p.ControversyScore*0.5 + float64(netVotes(p))*0.3 - ageHours*0.2
}
