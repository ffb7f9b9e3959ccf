package scoring

import (
	"sort"

	"github.com/guestview/guestview/internal/content"
)

// surfacedLimit is the size of the guest-facing "top picks" cutoff.
const surfacedLimit = 5

// RankedItem is one entry of a ranked catalog.
type RankedItem struct {
	Item      content.Item `json:"item"`
	Score     int          `json:"score"`
	Breakdown Breakdown    `json:"breakdown"`
	Rank      int          `json:"rank"`
	Surfaced  bool         `json:"surfaced"`
}

// scoreAll scores every item in catalog order.
func scoreAll(items []content.Item, gc Context) []RankedItem {
	out := make([]RankedItem, 0, len(items))
	for _, it := range items {
		b := Score(it, gc)
		out = append(out, RankedItem{Item: it, Score: b.Total, Breakdown: b})
	}
	return out
}

// Rank orders scored entries by score descending, assigns 1-based ranks,
// and marks the first min(5, n) entries as surfaced. The sort is stable so
// ties keep catalog insertion order across repeated calls.
func Rank(scored []RankedItem) []RankedItem {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	for i := range scored {
		scored[i].Rank = i + 1
		scored[i].Surfaced = i < surfacedLimit
	}
	return scored
}

// Surfaced returns the surfaced subset of an already ranked sequence.
func Surfaced(ranked []RankedItem) []RankedItem {
	out := make([]RankedItem, 0, surfacedLimit)
	for _, r := range ranked {
		if r.Surfaced {
			out = append(out, r)
		}
	}
	return out
}
