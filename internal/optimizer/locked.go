package optimizer

import (
	"sort"

	"github.com/wonny/stacker/internal/contracts"
)

// assignLocked pre-places every locked candidate, most constrained first
// (fewest eligible slots), which prunes branching early. Returns false when
// no consistent placement exists under the cap; the whole attempt is then
// discarded without falling through to the general fill.
func assignLocked(pool []contracts.Candidate, tab *assignTable, costCap int) bool {
	var locked []int
	for i := range pool {
		if pool[i].Locked {
			locked = append(locked, i)
		}
	}
	if len(locked) == 0 {
		return true
	}
	sort.SliceStable(locked, func(a, b int) bool {
		return pool[locked[a]].Mask.EligibleSlotCount() < pool[locked[b]].Mask.EligibleSlotCount()
	})
	return placeForced(pool, locked, 0, tab, costCap)
}

// placeForced backtracking-assigns list[k:] into still-open eligible slots,
// pruning on the cap. The table is unchanged when it returns false.
func placeForced(pool []contracts.Candidate, list []int, k int, tab *assignTable, costCap int) bool {
	if k == len(list) {
		return true
	}
	idx := list[k]
	c := &pool[idx]
	for _, s := range contracts.SlotOrder {
		if !tab.open(s) || !c.Mask.EligibleFor(s) {
			continue
		}
		if tab.salary+c.Salary > costCap {
			continue
		}
		tab.place(s, idx, c.Salary)
		if placeForced(pool, list, k+1, tab, costCap) {
			return true
		}
		tab.remove(s, idx, c.Salary)
	}
	return false
}
