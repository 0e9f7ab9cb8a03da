package optimizer

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/wonny/stacker/internal/contracts"
)

// requiredSet is the per-attempt outcome of exposure-floor bookkeeping:
// candidates that must appear in this very lineup to keep their floor
// reachable, plus ranked extras that should appear soon.
type requiredSet struct {
	must   []int
	extras []int // deficit desc, then tierPriority desc, then projection desc
	want   int   // how many extras to try to seat
}

// buildRequiredSet inspects every unlocked, not-yet-seated candidate with an
// exposure floor. A candidate whose remaining deficit reaches the number of
// lineups still to generate cannot afford to miss another one.
func buildRequiredSet(pool []contracts.Candidate, tab *assignTable, exposure map[string]int, cfg *contracts.OptimizeConfig, produced int) requiredSet {
	remaining := cfg.LineupCount - produced
	if remaining < 1 {
		remaining = 1
	}

	type entry struct{ idx, deficit int }
	var rs requiredSet
	var pending []entry
	totalDeficit := 0

	for i := range pool {
		c := &pool[i]
		if c.Locked || c.MinExposurePct <= 0 || tab.inUse[i] {
			continue
		}
		deficit := minTarget(c, cfg) - exposure[c.ID]
		if deficit <= 0 {
			continue
		}
		totalDeficit += deficit
		if deficit >= remaining {
			rs.must = append(rs.must, i)
		} else {
			pending = append(pending, entry{i, deficit})
		}
	}

	sort.SliceStable(pending, func(a, b int) bool {
		if pending[a].deficit != pending[b].deficit {
			return pending[a].deficit > pending[b].deficit
		}
		ca, cb := &pool[pending[a].idx], &pool[pending[b].idx]
		if ca.TierPriority != cb.TierPriority {
			return ca.TierPriority > cb.TierPriority
		}
		return ca.Projection > cb.Projection
	})
	for _, e := range pending {
		rs.extras = append(rs.extras, e.idx)
	}

	want := int(math.Ceil(float64(totalDeficit)/float64(remaining))) - len(rs.must)
	if want < 0 {
		want = 0
	}
	if lim := tab.openCount() - len(rs.must); want > lim {
		want = max(lim, 0)
	}
	if want > len(rs.extras) {
		want = len(rs.extras)
	}
	rs.want = want
	return rs
}

// assignRequiredSet seats the must-include candidates plus a rotated window
// of extras, shrinking the window one by one until placement succeeds.
// Rotation (offset from attempt index and a PRNG draw) shifts which extras
// get priority between attempts instead of always favoring the same few.
// Returns false only when the must-include set itself cannot be placed.
func assignRequiredSet(pool []contracts.Candidate, tab *assignTable, rs requiredSet, costCap, attempt int, rng *rand.Rand) bool {
	extras := rs.extras
	if len(extras) > 1 {
		offset := (attempt + rng.IntN(len(extras))) % len(extras)
		rotated := make([]int, 0, len(extras))
		rotated = append(rotated, extras[offset:]...)
		rotated = append(rotated, extras[:offset]...)
		extras = rotated
	}

	for k := rs.want; k >= 0; k-- {
		list := make([]int, 0, len(rs.must)+k)
		list = append(list, rs.must...)
		list = append(list, extras[:k]...)
		if len(list) == 0 {
			return true
		}
		if placeForced(pool, list, 0, tab, costCap) {
			return true
		}
	}
	return len(rs.must) == 0
}
