package optimizer

import (
	"context"
	"fmt"

	"github.com/wonny/stacker/internal/contracts"
	"github.com/wonny/stacker/pkg/logger"
)

const (
	attemptsPerLineup = 120
	minAttemptBudget  = 600

	// DefaultMaxUnspent is the cap slack still accepted on a finished lineup
	// when the configuration does not override it.
	DefaultMaxUnspent = 1000
)

// Generator drives repeated lineup attempts against a candidate pool and
// streams progress and results back to the caller.
// ⭐ SSOT: 라인업 생성 루프는 여기서만
type Generator struct {
	log *logger.Logger
}

// New creates a new lineup generator.
func New(log *logger.Logger) *Generator {
	return &Generator{log: log}
}

// Generate starts a batch run in its own goroutine and returns the event
// stream. A consumer that drains the stream sees exactly one terminal event
// (result or error) before the channel closes; one that cancels ctx and walks
// away mid-stream just sees the channel close. Each attempt is atomic, so
// cancellation between attempts never leaves partial state behind.
func (g *Generator) Generate(ctx context.Context, req contracts.OptimizeRequest) <-chan contracts.Event {
	events := make(chan contracts.Event, 8)
	go func() {
		defer close(events)
		defer func() {
			if r := recover(); r != nil {
				g.log.WithFields(map[string]interface{}{"panic": r}).Error("Optimizer task crashed")
				emit(ctx, events, contracts.Event{
					Type:    contracts.EventError,
					Message: fmt.Sprintf("optimizer task failed: %v", r),
				})
			}
		}()
		g.run(ctx, req, events)
	}()
	return events
}

// emit delivers one event unless the context is cancelled. Every send goes
// through here so an abandoned stream can never wedge the producer: a consumer
// that stops reading and cancels its context releases the goroutine even with
// the channel buffer full.
func emit(ctx context.Context, events chan<- contracts.Event, ev contracts.Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (g *Generator) run(ctx context.Context, req contracts.OptimizeRequest, events chan<- contracts.Event) {
	pool := req.Candidates
	cfg := req.Config

	if err := validate(pool, &cfg); err != nil {
		g.log.WithError(err).Warn("Optimize request rejected")
		emit(ctx, events, contracts.Event{Type: contracts.EventError, Message: err.Error()})
		return
	}

	budget := cfg.LineupCount * attemptsPerLineup
	if budget < minAttemptBudget {
		budget = minAttemptBudget
	}
	maxUnspent := cfg.MaxUnspent
	if maxUnspent <= 0 {
		maxUnspent = DefaultMaxUnspent
	}

	g.log.WithFields(map[string]interface{}{
		"pool":     len(pool),
		"target":   cfg.LineupCount,
		"cost_cap": cfg.CostCap,
		"budget":   budget,
	}).Info("Starting lineup batch")

	// ExposureState lives for exactly one batch and is touched only here,
	// between attempts.
	exposure := make(map[string]int, len(pool))
	seen := make(map[string]bool, cfg.LineupCount)
	lineups := make([]contracts.Lineup, 0, cfg.LineupCount)

	attempts := 0
	for ; attempts < budget && len(lineups) < cfg.LineupCount; attempts++ {
		select {
		case <-ctx.Done():
			g.log.WithFields(map[string]interface{}{"found": len(lineups)}).Warn("Batch cancelled")
			// Partial result is best effort: a reader still draining gets it,
			// a departed one must not block shutdown.
			select {
			case events <- contracts.Event{Type: contracts.EventResult, Lineups: lineups}:
			default:
			}
			return
		default:
		}

		lineup, ok := attemptLineup(pool, &cfg, exposure, len(lineups), attempts, maxUnspent)
		if !ok {
			continue
		}

		sig := lineup.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true

		for i := range lineup.Assignments {
			exposure[lineup.Assignments[i].CandidateID]++
		}
		lineup.ID = len(lineups) + 1
		lineups = append(lineups, lineup)

		latest := lineup
		ok = emit(ctx, events, contracts.Event{
			Type:         contracts.EventProgress,
			Percent:      float64(len(lineups)) / float64(cfg.LineupCount) * 100,
			LineupsFound: len(lineups),
			CurrentBest:  &latest,
		})
		if !ok {
			g.log.WithFields(map[string]interface{}{"found": len(lineups)}).Warn("Batch abandoned mid-stream")
			return
		}
	}

	if len(lineups) < cfg.LineupCount {
		g.log.WithFields(map[string]interface{}{
			"found":    len(lineups),
			"target":   cfg.LineupCount,
			"attempts": attempts,
		}).Warn("Attempt budget exhausted before reaching target")
	} else {
		g.log.WithFields(map[string]interface{}{
			"found":    len(lineups),
			"attempts": attempts,
		}).Info("Lineup batch complete")
	}

	emit(ctx, events, contracts.Event{Type: contracts.EventResult, Lineups: lineups})
}

// validate runs the pre-flight checks: normalized candidates, a pool of at
// least eight, and every slot coverable. Any failure here costs zero attempts.
func validate(pool []contracts.Candidate, cfg *contracts.OptimizeConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	for i := range pool {
		if pool[i].Mask == 0 {
			if err := pool[i].Normalize(); err != nil {
				return err
			}
		}
	}
	if len(pool) < contracts.SlotCount {
		return ErrPoolTooSmall
	}
	for _, s := range contracts.SlotOrder {
		covered := false
		for i := range pool {
			if pool[i].Mask.EligibleFor(s) {
				covered = true
				break
			}
		}
		if !covered {
			return slotUncoveredError(s)
		}
	}
	return nil
}

// attemptLineup runs one full attempt: score, seat locked candidates, seat
// the exposure-required set, then backtracking-fill the rest. Succeeds or
// fails as a unit.
func attemptLineup(pool []contracts.Candidate, cfg *contracts.OptimizeConfig, exposure map[string]int, produced, attempt, maxUnspent int) (contracts.Lineup, bool) {
	rng := newAttemptRNG(produced, attempt)
	tab := newAssignTable(len(pool))

	ranked := scoreCandidates(pool, exposure, cfg, produced, rng)

	if !assignLocked(pool, tab, cfg.CostCap) {
		return contracts.Lineup{}, false
	}

	rs := buildRequiredSet(pool, tab, exposure, cfg, produced)
	if !assignRequiredSet(pool, tab, rs, cfg.CostCap, attempt, rng) {
		return contracts.Lineup{}, false
	}

	if !fillLineup(pool, tab, ranked, cfg.CostCap, maxUnspent, rng) {
		return contracts.Lineup{}, false
	}

	return buildLineup(pool, tab), true
}

func buildLineup(pool []contracts.Candidate, tab *assignTable) contracts.Lineup {
	var lineup contracts.Lineup
	for _, s := range contracts.SlotOrder {
		c := &pool[tab.slots[s]]
		lineup.Assignments[s] = contracts.Assignment{
			Slot:        s,
			CandidateID: c.ID,
			Name:        c.Name,
			Salary:      c.Salary,
			Projection:  c.Projection,
		}
		lineup.TotalSalary += c.Salary
		lineup.TotalProjection += c.Projection
	}
	return lineup
}
