package contracts

import "fmt"

// Candidate is one entry of the pool fed into the optimizer. TierPriority and
// ManualBonus are opaque scoring signals computed upstream; the optimizer only
// folds them into its ranking, it never derives them.
// ⭐ SSOT: 후보 데이터 계약은 여기서만
type Candidate struct {
	ID         string  `json:"id"`
	Name       string  `json:"name,omitempty"`
	Positions  string  `json:"positions"` // raw tags, e.g. "PG/SF"
	Salary     int     `json:"salary"`
	Projection float64 `json:"projection"`
	Ceiling    float64 `json:"ceiling,omitempty"` // upside estimate, optional

	TierPriority int `json:"tierPriority,omitempty"`
	ManualBonus  int `json:"manualBonus,omitempty"`

	Locked         bool    `json:"locked,omitempty"`
	MinExposurePct float64 `json:"minExposurePct,omitempty"` // 0 = no floor
	MaxExposurePct float64 `json:"maxExposurePct,omitempty"` // 0 = global ceiling applies

	// Mask is derived from Positions once at ingestion.
	Mask PositionMask `json:"-"`
}

// Normalize validates the record and derives Mask from Positions.
// Safe to call more than once.
func (c *Candidate) Normalize() error {
	if c.ID == "" {
		return fmt.Errorf("candidate id is required")
	}
	if c.Salary <= 0 {
		return fmt.Errorf("candidate %s: salary must be positive, got %d", c.ID, c.Salary)
	}
	if c.MinExposurePct < 0 || c.MinExposurePct > 100 {
		return fmt.Errorf("candidate %s: minExposurePct out of range: %.1f", c.ID, c.MinExposurePct)
	}
	if c.MaxExposurePct < 0 || c.MaxExposurePct > 100 {
		return fmt.Errorf("candidate %s: maxExposurePct out of range: %.1f", c.ID, c.MaxExposurePct)
	}
	mask, err := ParsePositions(c.Positions)
	if err != nil {
		return fmt.Errorf("candidate %s: %w", c.ID, err)
	}
	c.Mask = mask
	return nil
}

// DisplayName returns the name if set, otherwise the id.
func (c *Candidate) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
