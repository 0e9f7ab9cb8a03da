package optimizer

import (
	"math/rand/v2"

	"github.com/wonny/stacker/internal/contracts"
)

// shuffleWindow caps how many top-ranked candidates per slot enter the random
// shuffle. Randomizing inside the window varies lineups among near-equal
// options without ever drawing low-ranked filler.
const shuffleWindow = 40

// fillLineup completes every open slot by randomized, cap-pruned depth-first
// search over the attempt's ranking.
func fillLineup(pool []contracts.Candidate, tab *assignTable, ranked []int, costCap, maxUnspent int, rng *rand.Rand) bool {
	open := make([]contracts.Slot, 0, contracts.SlotCount)
	for _, s := range contracts.SlotOrder {
		if tab.open(s) {
			open = append(open, s)
		}
	}
	return fillSlots(pool, tab, ranked, open, costCap, maxUnspent, rng)
}

func fillSlots(pool []contracts.Candidate, tab *assignTable, ranked []int, open []contracts.Slot, costCap, maxUnspent int, rng *rand.Rand) bool {
	if len(open) == 0 {
		// quality bar: accept only near-full cap utilization
		return costCap-tab.salary < maxUnspent
	}
	s := open[0]

	window := make([]int, 0, shuffleWindow)
	for _, idx := range ranked {
		if tab.inUse[idx] || !pool[idx].Mask.EligibleFor(s) {
			continue
		}
		window = append(window, idx)
		if len(window) == shuffleWindow {
			break
		}
	}

	// Fisher-Yates over the window with the attempt's seeded generator
	for i := len(window) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		window[i], window[j] = window[j], window[i]
	}

	for _, idx := range window {
		c := &pool[idx]
		if tab.salary+c.Salary > costCap {
			continue
		}
		tab.place(s, idx, c.Salary)
		if fillSlots(pool, tab, ranked, open[1:], costCap, maxUnspent, rng) {
			return true
		}
		tab.remove(s, idx, c.Salary)
	}
	return false
}
