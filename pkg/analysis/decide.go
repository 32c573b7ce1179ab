package analysis

import (
	"sort"

	"github.com/enstruman/enstruman/pkg/labels"
)

// Decide turns an averaged score vector into the final ordered label list.
// An empty result means "no confident detection".
func Decide(avg []float64, table labels.Table, p Profile) []string {
	if len(avg) == 0 {
		return nil
	}

	ranked := rankIndices(avg)

	// Whole-clip mode gates each candidate while building the list; the
	// multi-frame modes gate once on the top score and its margin over
	// the runner-up.
	if p.ScoreFloor <= 0 {
		best := avg[ranked[0]]
		second := best
		if len(ranked) > 1 {
			second = avg[ranked[1]]
		}
		if best < p.Confidence || best-second < p.Margin {
			return nil
		}
	}

	var verdict []string
	seen := make(map[string]struct{})
	for _, idx := range ranked {
		if len(verdict) >= p.TopK {
			break
		}
		if p.ScoreFloor > 0 && avg[idx] <= p.ScoreFloor {
			// Ranked descending, nothing below the floor follows.
			break
		}

		// The label table may be shorter than the score vector;
		// trailing indices are skipped, never an error.
		name, ok := table.Resolve(idx)
		if !ok {
			continue
		}
		if p.Translate {
			name = labels.Translate(name)
		}
		// Whitelist skips do not consume a verdict slot.
		if p.Whitelist && !labels.IsInstrument(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		verdict = append(verdict, name)
	}
	return verdict
}

// rankIndices returns class indices in descending score order. The sort is
// stable so ties keep their original index order.
func rankIndices(avg []float64) []int {
	ranked := make([]int, len(avg))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return avg[ranked[a]] > avg[ranked[b]]
	})
	return ranked
}
