package optimizer

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/wonny/stacker/internal/contracts"
)

// Scoring weights. TierPriority dominates ManualBonus, which dominates the
// projection term, so the externally computed signals act as coarse bands
// the projection only reorders within.
const (
	tierWeight    = 1_000_000.0
	bonusWeight   = 10_000.0
	ceilingWeight = 2.0
	jitterWeight  = 0.5

	// A candidate over its exposure ceiling is heavily down-ranked but never
	// excluded. 의도된 동작: 대안이 없으면 한도를 넘더라도 라인업을 채운다.
	overExposurePenalty = 0.001
	underExposureBoost  = 1.25
)

// effectiveMaxExposure returns the candidate's exposure ceiling, falling back
// to the global ceiling when none is set.
func effectiveMaxExposure(c *contracts.Candidate, cfg *contracts.OptimizeConfig) float64 {
	if c.MaxExposurePct > 0 {
		return c.MaxExposurePct
	}
	if cfg.GlobalMaxExposurePct > 0 {
		return cfg.GlobalMaxExposurePct
	}
	return 100
}

// minTarget returns the appearance count needed to satisfy a candidate's
// exposure floor over the whole batch, or 0 when no floor is set.
func minTarget(c *contracts.Candidate, cfg *contracts.OptimizeConfig) int {
	if c.MinExposurePct <= 0 {
		return 0
	}
	return int(math.Ceil(c.MinExposurePct / 100 * float64(cfg.LineupCount)))
}

// scoreCandidates ranks the whole pool for one attempt and returns pool
// indices in descending score order, ties broken by salary descending
// (prefer spending more of the cap). produced is the number of lineups
// already in the batch; jitter is drawn per candidate in pool order so the
// attempt's draw sequence is reproducible.
func scoreCandidates(pool []contracts.Candidate, exposure map[string]int, cfg *contracts.OptimizeConfig, produced int, rng *rand.Rand) []int {
	remaining := cfg.LineupCount - produced
	if remaining < 1 {
		remaining = 1
	}

	scores := make([]float64, len(pool))
	for i := range pool {
		c := &pool[i]
		e := exposure[c.ID]
		expPct := float64(e) / float64(max(produced, 1)) * 100

		penalty := 1.0
		if expPct > effectiveMaxExposure(c, cfg) {
			penalty = overExposurePenalty
		}

		boost := 1.0
		if c.MinExposurePct > 0 && expPct < c.MinExposurePct {
			boost = underExposureBoost
		}

		deficitBonus := 0.0
		if deficit := minTarget(c, cfg) - e; deficit > 0 {
			deficitBonus = float64(deficit) / float64(remaining) * 2
		}

		scores[i] = float64(c.TierPriority)*tierWeight +
			float64(c.ManualBonus)*bonusWeight +
			(c.Projection+deficitBonus)*penalty*boost +
			c.Ceiling*ceilingWeight +
			rng.Float64()*jitterWeight
	}

	ranked := make([]int, len(pool))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		ia, ib := ranked[a], ranked[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return pool[ia].Salary > pool[ib].Salary
	})
	return ranked
}
