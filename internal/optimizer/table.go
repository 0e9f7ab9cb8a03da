package optimizer

import "github.com/wonny/stacker/internal/contracts"

// assignTable is the in-progress lineup of one attempt: an explicit
// slot-indexed assignment with undo-on-backtrack. Branches place and remove
// through the table instead of mutating captured variables, so a failed
// subtree always leaves the table exactly as it found it.
type assignTable struct {
	slots  [contracts.SlotCount]int // pool index per slot, -1 while open
	inUse  []bool                   // pool index -> already seated
	salary int
}

func newAssignTable(poolSize int) *assignTable {
	t := &assignTable{inUse: make([]bool, poolSize)}
	for i := range t.slots {
		t.slots[i] = -1
	}
	return t
}

func (t *assignTable) open(s contracts.Slot) bool {
	return t.slots[s] == -1
}

func (t *assignTable) openCount() int {
	n := 0
	for _, idx := range t.slots {
		if idx == -1 {
			n++
		}
	}
	return n
}

func (t *assignTable) place(s contracts.Slot, idx, salary int) {
	t.slots[s] = idx
	t.inUse[idx] = true
	t.salary += salary
}

func (t *assignTable) remove(s contracts.Slot, idx, salary int) {
	t.slots[s] = -1
	t.inUse[idx] = false
	t.salary -= salary
}
