package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/stacker/internal/contracts"
)

func TestScoreCandidates_TierDominates(t *testing.T) {
	pool := []contracts.Candidate{
		testCandidate(t, "lowtier", "PG", 6000, 60), // huge projection
		testCandidate(t, "hightier", "PG", 6000, 5),
	}
	pool[1].TierPriority = 1

	cfg := &contracts.OptimizeConfig{LineupCount: 10, CostCap: 50_000}
	ranked := scoreCandidates(pool, map[string]int{}, cfg, 0, newAttemptRNG(0, 0))

	assert.Equal(t, 1, ranked[0], "tier priority should outrank any projection")
}

func TestScoreCandidates_OverExposurePenalty(t *testing.T) {
	pool := []contracts.Candidate{
		testCandidate(t, "capped", "PG", 6000, 40),
		testCandidate(t, "fresh", "PG", 6000, 10),
	}
	pool[0].MaxExposurePct = 30

	cfg := &contracts.OptimizeConfig{LineupCount: 10, CostCap: 50_000}
	// capped has appeared in 4 of 4 lineups: 100% > 30% ceiling
	exposure := map[string]int{"capped": 4}
	ranked := scoreCandidates(pool, exposure, cfg, 4, newAttemptRNG(4, 10))

	assert.Equal(t, 1, ranked[0], "over-exposed candidate should be heavily down-ranked")
}

func TestScoreCandidates_FloorBoost(t *testing.T) {
	pool := []contracts.Candidate{
		testCandidate(t, "plain", "PG", 6000, 10),
		testCandidate(t, "floored", "PG", 6000, 10),
	}
	pool[1].MinExposurePct = 80

	cfg := &contracts.OptimizeConfig{LineupCount: 10, CostCap: 50_000}
	// floored has appeared once in 4 lineups: 25% < 80% floor, deficit 7
	exposure := map[string]int{"floored": 1}
	ranked := scoreCandidates(pool, exposure, cfg, 4, newAttemptRNG(4, 20))

	assert.Equal(t, 1, ranked[0], "candidate under its floor should rank first")
}

func TestScoreCandidates_Deterministic(t *testing.T) {
	pool := buildPool(t, 20)
	cfg := &contracts.OptimizeConfig{LineupCount: 10, CostCap: 50_000}
	exposure := map[string]int{"p03": 2, "p07": 1}

	a := scoreCandidates(pool, exposure, cfg, 3, newAttemptRNG(3, 17))
	b := scoreCandidates(pool, exposure, cfg, 3, newAttemptRNG(3, 17))

	assert.Equal(t, a, b, "identical seeds must produce identical rankings")
}

func TestEffectiveMaxExposure(t *testing.T) {
	cfg := &contracts.OptimizeConfig{LineupCount: 10, CostCap: 50_000, GlobalMaxExposurePct: 60}

	c := testCandidate(t, "a", "PG", 6000, 10)
	assert.Equal(t, 60.0, effectiveMaxExposure(&c, cfg), "global ceiling applies by default")

	c.MaxExposurePct = 25
	assert.Equal(t, 25.0, effectiveMaxExposure(&c, cfg), "candidate ceiling wins when set")

	noGlobal := &contracts.OptimizeConfig{LineupCount: 10, CostCap: 50_000}
	c.MaxExposurePct = 0
	assert.Equal(t, 100.0, effectiveMaxExposure(&c, noGlobal))
}

func TestMinTarget(t *testing.T) {
	cfg := &contracts.OptimizeConfig{LineupCount: 10, CostCap: 50_000}

	c := testCandidate(t, "a", "PG", 6000, 10)
	assert.Equal(t, 0, minTarget(&c, cfg), "no floor, no target")

	c.MinExposurePct = 25
	assert.Equal(t, 3, minTarget(&c, cfg), "25% of 10 rounds up to 3")

	c.MinExposurePct = 100
	assert.Equal(t, 10, minTarget(&c, cfg))
}
