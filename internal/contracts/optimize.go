package contracts

import "fmt"

// OptimizeConfig is produced by the configuration surface upstream and is
// read-only for the duration of a batch run.
type OptimizeConfig struct {
	LineupCount          int     `json:"lineupCount"`
	CostCap              int     `json:"costCap"`
	GlobalMaxExposurePct float64 `json:"globalMaxExposurePct,omitempty"` // 0 = 100

	// MaxUnspent is the cap slack still accepted on a finished lineup.
	// 0 selects the solver default. 품질 기준: 캡을 거의 다 쓰도록 유도
	MaxUnspent int `json:"maxUnspent,omitempty"`
}

// Validate checks the configuration before any search work begins.
func (c *OptimizeConfig) Validate() error {
	if c.LineupCount <= 0 {
		return fmt.Errorf("lineupCount must be positive, got %d", c.LineupCount)
	}
	if c.CostCap <= 0 {
		return fmt.Errorf("costCap must be positive, got %d", c.CostCap)
	}
	if c.GlobalMaxExposurePct < 0 || c.GlobalMaxExposurePct > 100 {
		return fmt.Errorf("globalMaxExposurePct out of range: %.1f", c.GlobalMaxExposurePct)
	}
	if c.MaxUnspent < 0 {
		return fmt.Errorf("maxUnspent must not be negative, got %d", c.MaxUnspent)
	}
	return nil
}

// OptimizeRequest is the single message a caller sends across the solver
// boundary. API callers may reference a cached pool via SlateID instead of
// inlining candidates.
type OptimizeRequest struct {
	Candidates []Candidate    `json:"candidates,omitempty"`
	Config     OptimizeConfig `json:"config"`
	SlateID    string         `json:"slateId,omitempty"`
}

// EventType discriminates messages on the solver's outbound stream.
type EventType string

const (
	EventProgress EventType = "progress"
	EventResult   EventType = "result"
	EventError    EventType = "error"
)

// Event is one message on the solver's outbound stream. Progress events are
// emitted once per unique lineup (never per raw attempt); exactly one result
// or error event terminates the stream.
type Event struct {
	Type         EventType `json:"type"`
	Percent      float64   `json:"percent,omitempty"`
	LineupsFound int       `json:"lineupsFound,omitempty"`
	CurrentBest  *Lineup   `json:"currentBest,omitempty"`
	Lineups      []Lineup  `json:"lineups,omitempty"`
	Message      string    `json:"message,omitempty"`
}

// Terminal reports whether the event closes the stream.
func (e *Event) Terminal() bool {
	return e.Type == EventResult || e.Type == EventError
}
