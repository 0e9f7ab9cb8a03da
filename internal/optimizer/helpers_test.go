package optimizer

import (
	"fmt"
	"testing"

	"github.com/wonny/stacker/internal/contracts"
)

// testCandidate builds a normalized candidate or fails the test.
func testCandidate(t *testing.T, id, positions string, salary int, projection float64) contracts.Candidate {
	t.Helper()
	c := contracts.Candidate{
		ID:         id,
		Name:       id,
		Positions:  positions,
		Salary:     salary,
		Projection: projection,
	}
	if err := c.Normalize(); err != nil {
		t.Fatalf("candidate %s: %v", id, err)
	}
	return c
}

// buildPool returns a balanced pool of n candidates cycling through the five
// primary positions, with salaries spread 5500..6900 so many distinct lineups
// fit under a 50k cap.
func buildPool(t *testing.T, n int) []contracts.Candidate {
	t.Helper()
	positions := []string{"PG", "SG", "SF", "PF", "C"}
	pool := make([]contracts.Candidate, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, testCandidate(t,
			fmt.Sprintf("p%02d", i),
			positions[i%len(positions)],
			5500+(i%8)*200,
			20+float64(i%10)*1.5,
		))
	}
	return pool
}

// collectEvents drains a generator stream into progress events and the
// terminal event.
func collectEvents(t *testing.T, ch <-chan contracts.Event) ([]contracts.Event, contracts.Event) {
	t.Helper()
	var progress []contracts.Event
	var terminal contracts.Event
	sawTerminal := false
	for ev := range ch {
		if ev.Terminal() {
			if sawTerminal {
				t.Fatal("more than one terminal event on the stream")
			}
			sawTerminal = true
			terminal = ev
			continue
		}
		progress = append(progress, ev)
	}
	if !sawTerminal {
		t.Fatal("stream closed without a terminal event")
	}
	return progress, terminal
}
