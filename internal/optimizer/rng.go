package optimizer

import "math/rand/v2"

// newAttemptRNG returns the deterministic generator for one attempt. Seeding
// from (lineups produced so far, running attempt counter) varies tie-breaking
// between attempts while two runs with identical inputs replay the exact same
// draw sequence. Never a shared global generator.
func newAttemptRNG(produced, attempt int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(produced), uint64(attempt)))
}
