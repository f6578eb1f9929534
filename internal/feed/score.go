// Package feed implements the controversy scorer and feed ranking.
package feed

import "math"

// ControversyScore computes a post's divisiveness from its vote tallies.
//
//	score = (min(up, down) / max(up, down, 1)) * ln(up + down + 1)
//
// It peaks for an even up/down split and grows with total engagement; a
// unanimous landslide scores low regardless of volume. Always recomputed
// from the full tallies after a vote mutation, never patched
// incrementally, so the stored value cannot drift.
func ControversyScore(upvotes, downvotes int) float64 {
	total := upvotes + downvotes
	if total == 0 {
		return 0
	}
	ratio := float64(min(upvotes, downvotes)) / float64(max(upvotes, max(downvotes, 1)))
	engagement := math.Log(float64(total) + 1)
	return ratio * engagement
}
