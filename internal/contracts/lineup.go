package contracts

import (
	"sort"
	"strings"
)

// Assignment binds one roster slot to the candidate filling it.
type Assignment struct {
	Slot        Slot    `json:"slot"`
	CandidateID string  `json:"candidateId"`
	Name        string  `json:"name,omitempty"`
	Salary      int     `json:"salary"`
	Projection  float64 `json:"projection"`
}

// Lineup is one completed roster: every slot filled, cap respected, no
// candidate repeated. Immutable once returned by the solver.
type Lineup struct {
	ID              int                   `json:"id"`
	Assignments     [SlotCount]Assignment `json:"assignments"` // indexed by Slot
	TotalSalary     int                   `json:"totalSalary"`
	TotalProjection float64               `json:"totalProjection"`
}

// Get returns the assignment occupying slot s.
func (l *Lineup) Get(s Slot) Assignment {
	return l.Assignments[s]
}

// Contains reports whether the lineup uses the given candidate.
func (l *Lineup) Contains(id string) bool {
	for i := range l.Assignments {
		if l.Assignments[i].CandidateID == id {
			return true
		}
	}
	return false
}

// Signature returns the order-independent identity of the lineup: candidate
// ids sorted and joined. Two lineups with the same players collapse to the
// same signature regardless of slot placement.
func (l *Lineup) Signature() string {
	ids := make([]string, SlotCount)
	for i := range l.Assignments {
		ids[i] = l.Assignments[i].CandidateID
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}
