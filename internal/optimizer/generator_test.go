package optimizer

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stacker/internal/contracts"
	"github.com/wonny/stacker/pkg/logger"
)

func testRequest(pool []contracts.Candidate, count int) contracts.OptimizeRequest {
	return contracts.OptimizeRequest{
		Candidates: pool,
		Config: contracts.OptimizeConfig{
			LineupCount: count,
			CostCap:     50_000,
			MaxUnspent:  5_000,
		},
	}
}

func TestGenerate_ProducesRequestedCount(t *testing.T) {
	g := New(logger.NewNop())
	progress, terminal := collectEvents(t, g.Generate(context.Background(), testRequest(buildPool(t, 24), 10)))

	require.Equal(t, contracts.EventResult, terminal.Type)
	require.Len(t, terminal.Lineups, 10)
	assert.Len(t, progress, 10, "one progress event per unique lineup")

	for i, ev := range progress {
		assert.Equal(t, i+1, ev.LineupsFound)
		require.NotNil(t, ev.CurrentBest)
	}
	assert.InDelta(t, 100.0, progress[len(progress)-1].Percent, 0.01)
}

func TestGenerate_CapInvariant(t *testing.T) {
	g := New(logger.NewNop())
	_, terminal := collectEvents(t, g.Generate(context.Background(), testRequest(buildPool(t, 24), 10)))

	require.Equal(t, contracts.EventResult, terminal.Type)
	for _, l := range terminal.Lineups {
		salary := 0
		seen := make(map[string]bool)
		for _, a := range l.Assignments {
			salary += a.Salary
			assert.False(t, seen[a.CandidateID], "lineup %d seats %s twice", l.ID, a.CandidateID)
			seen[a.CandidateID] = true
		}
		assert.Equal(t, l.TotalSalary, salary)
		assert.LessOrEqual(t, salary, 50_000, "lineup %d busts the cap", l.ID)
	}
}

func TestGenerate_NoDuplicateSignatures(t *testing.T) {
	g := New(logger.NewNop())
	_, terminal := collectEvents(t, g.Generate(context.Background(), testRequest(buildPool(t, 24), 10)))

	sigs := make(map[string]bool)
	for _, l := range terminal.Lineups {
		sig := l.Signature()
		assert.False(t, sigs[sig], "duplicate lineup %s", sig)
		sigs[sig] = true
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g := New(logger.NewNop())

	_, a := collectEvents(t, g.Generate(context.Background(), testRequest(buildPool(t, 24), 8)))
	_, b := collectEvents(t, g.Generate(context.Background(), testRequest(buildPool(t, 24), 8)))

	require.Equal(t, len(a.Lineups), len(b.Lineups))
	for i := range a.Lineups {
		assert.Equal(t, a.Lineups[i].Signature(), b.Lineups[i].Signature(),
			"run order and content must repeat exactly")
	}
}

func TestGenerate_ExactPoolYieldsSingleLineup(t *testing.T) {
	// Eight candidates, one per roster shape, total 49500 against a 50k cap.
	// Every arrangement carries the same ids, so at most one unique lineup
	// exists no matter how many are requested.
	pool := []contracts.Candidate{
		testCandidate(t, "pg1", "PG", 6_500, 30),
		testCandidate(t, "sg1", "SG", 6_500, 28),
		testCandidate(t, "sf1", "SF", 6_000, 26),
		testCandidate(t, "pf1", "PF", 6_000, 25),
		testCandidate(t, "c1", "C", 6_000, 27),
		testCandidate(t, "pg2", "PG", 6_500, 24),
		testCandidate(t, "sf2", "SF", 6_000, 22),
		testCandidate(t, "c2", "C", 6_000, 21),
	}

	req := contracts.OptimizeRequest{
		Candidates: pool,
		Config:     contracts.OptimizeConfig{LineupCount: 5, CostCap: 50_000},
	}

	g := New(logger.NewNop())
	_, terminal := collectEvents(t, g.Generate(context.Background(), req))

	require.Equal(t, contracts.EventResult, terminal.Type)
	require.Len(t, terminal.Lineups, 1, "budget exhausts with one unique lineup")
	assert.Equal(t, 49_500, terminal.Lineups[0].TotalSalary)
	assert.Equal(t, "c1|c2|pf1|pg1|pg2|sf1|sf2|sg1", terminal.Lineups[0].Signature())
}

func TestGenerate_PoolTooSmall(t *testing.T) {
	g := New(logger.NewNop())
	_, terminal := collectEvents(t, g.Generate(context.Background(), testRequest(buildPool(t, 5), 3)))

	require.Equal(t, contracts.EventError, terminal.Type)
	assert.Equal(t, ErrPoolTooSmall.Error(), terminal.Message)
}

func TestGenerate_SlotUncovered(t *testing.T) {
	// nobody tagged C: the C slot can never be filled
	positions := []string{"PG", "SG", "SF", "PF"}
	pool := make([]contracts.Candidate, 0, 8)
	for i := 0; i < 8; i++ {
		pool = append(pool, testCandidate(t, string(rune('a'+i)), positions[i%4], 6_000, 20))
	}

	g := New(logger.NewNop())
	_, terminal := collectEvents(t, g.Generate(context.Background(), testRequest(pool, 3)))

	require.Equal(t, contracts.EventError, terminal.Type)
	assert.Contains(t, terminal.Message, "C", "error must name the uncovered slot")
}

func TestGenerate_InvalidConfig(t *testing.T) {
	req := testRequest(buildPool(t, 24), 10)
	req.Config.LineupCount = 0

	g := New(logger.NewNop())
	_, terminal := collectEvents(t, g.Generate(context.Background(), req))

	require.Equal(t, contracts.EventError, terminal.Type)
	assert.Contains(t, terminal.Message, "lineupCount")
}

func TestGenerate_LockedInEveryLineup(t *testing.T) {
	pool := buildPool(t, 24)
	pool[4].Locked = true // a center
	pool[4].Salary = 3_000

	g := New(logger.NewNop())
	_, terminal := collectEvents(t, g.Generate(context.Background(), testRequest(pool, 8)))

	require.Equal(t, contracts.EventResult, terminal.Type)
	require.NotEmpty(t, terminal.Lineups)
	for _, l := range terminal.Lineups {
		assert.True(t, l.Contains(pool[4].ID), "locked candidate missing from lineup %d", l.ID)
	}
}

func TestGenerate_MidRangeFloorsHonored(t *testing.T) {
	pool := buildPool(t, 24)
	pool[7].MinExposurePct = 50  // at least 5 of 10
	pool[12].MinExposurePct = 30 // at least 3 of 10

	g := New(logger.NewNop())
	_, terminal := collectEvents(t, g.Generate(context.Background(), testRequest(pool, 10)))

	require.Equal(t, contracts.EventResult, terminal.Type)
	require.Len(t, terminal.Lineups, 10, "floors are only guaranteed on completed batches")

	counts := make(map[string]int)
	for _, l := range terminal.Lineups {
		for _, a := range l.Assignments {
			counts[a.CandidateID]++
		}
	}
	assert.GreaterOrEqual(t, counts[pool[7].ID], 5, "50%% floor over 10 lineups")
	assert.GreaterOrEqual(t, counts[pool[12].ID], 3, "30%% floor over 10 lineups")
}

func TestGenerate_ExposureFloorHonored(t *testing.T) {
	pool := buildPool(t, 24)
	pool[3].MinExposurePct = 100

	g := New(logger.NewNop())
	_, terminal := collectEvents(t, g.Generate(context.Background(), testRequest(pool, 6)))

	require.Equal(t, contracts.EventResult, terminal.Type)
	require.NotEmpty(t, terminal.Lineups)
	for _, l := range terminal.Lineups {
		assert.True(t, l.Contains(pool[3].ID), "100%% floor candidate missing from lineup %d", l.ID)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(logger.NewNop())
	progress, terminal := collectEvents(t, g.Generate(ctx, testRequest(buildPool(t, 24), 10)))

	assert.Empty(t, progress)
	require.Equal(t, contracts.EventResult, terminal.Type, "cancellation still yields a result event")
	assert.Empty(t, terminal.Lineups)
}

func TestGenerate_CancelUnblocksAbandonedStream(t *testing.T) {
	before := runtime.NumGoroutine()

	ctx, cancel := context.WithCancel(context.Background())
	g := New(logger.NewNop())
	g.Generate(ctx, testRequest(buildPool(t, 24), 50)) // stream never read

	// Let the producer fill the channel buffer and block in a send, then walk
	// away. Cancellation alone must release the goroutine.
	time.Sleep(100 * time.Millisecond)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("producer goroutine still alive after cancel: %d goroutines, started with %d",
		runtime.NumGoroutine(), before)
}

func TestGenerate_LineupIDsSequential(t *testing.T) {
	g := New(logger.NewNop())
	_, terminal := collectEvents(t, g.Generate(context.Background(), testRequest(buildPool(t, 24), 6)))

	for i, l := range terminal.Lineups {
		assert.Equal(t, i+1, l.ID)
	}
}
