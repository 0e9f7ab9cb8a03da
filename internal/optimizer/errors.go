package optimizer

import (
	"errors"
	"fmt"

	"github.com/wonny/stacker/internal/contracts"
)

// Validation failures are fatal and reported before any attempt is spent.
// Infeasible attempts are not errors; they only erode the attempt budget.
var (
	ErrPoolTooSmall  = errors.New("candidate pool must contain at least 8 candidates")
	ErrSlotUncovered = errors.New("slot has no eligible candidate")
)

func slotUncoveredError(s contracts.Slot) error {
	return fmt.Errorf("%w: %s", ErrSlotUncovered, s)
}
