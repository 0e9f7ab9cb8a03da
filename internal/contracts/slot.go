package contracts

import (
	"fmt"
	"strings"
)

// Slot identifies one of the eight fixed roster slots a lineup must fill.
// ⭐ SSOT: 슬롯 모델은 여기서만 정의
type Slot int

const (
	SlotPG Slot = iota
	SlotSG
	SlotSF
	SlotPF
	SlotC
	SlotG    // PG or SG
	SlotF    // SF or PF
	SlotUTIL // any position

	// SlotCount is the fixed roster size.
	SlotCount = 8
)

var slotNames = [SlotCount]string{"PG", "SG", "SF", "PF", "C", "G", "F", "UTIL"}

// SlotOrder is the fixed iteration order used by the solver and by exports.
// Primary slots come first so the most constrained positions are seated early.
var SlotOrder = [SlotCount]Slot{SlotPG, SlotSG, SlotSF, SlotPF, SlotC, SlotG, SlotF, SlotUTIL}

func (s Slot) String() string {
	if s < 0 || int(s) >= SlotCount {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotNames[s]
}

// MarshalText renders the slot label in JSON payloads.
func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a slot label.
func (s *Slot) UnmarshalText(text []byte) error {
	name := strings.ToUpper(string(text))
	for i, n := range slotNames {
		if n == name {
			*s = Slot(i)
			return nil
		}
	}
	return fmt.Errorf("unknown slot %q", string(text))
}

// PositionMask is a bit set over the five primary position tags. It is
// computed once at ingestion; the solver only ever tests masks, never strings.
type PositionMask uint8

const (
	PosPG PositionMask = 1 << iota
	PosSG
	PosSF
	PosPF
	PosC
)

var posBits = map[string]PositionMask{
	"PG": PosPG,
	"SG": PosSG,
	"SF": PosSF,
	"PF": PosPF,
	"C":  PosC,
}

// slotMasks[s] is the set of primary tags slot s accepts.
var slotMasks = [SlotCount]PositionMask{
	SlotPG:   PosPG,
	SlotSG:   PosSG,
	SlotSF:   PosSF,
	SlotPF:   PosPF,
	SlotC:    PosC,
	SlotG:    PosPG | PosSG,
	SlotF:    PosSF | PosPF,
	SlotUTIL: PosPG | PosSG | PosSF | PosPF | PosC,
}

// ParsePositions parses a tag list like "PG/SF" into a PositionMask.
// "/" and "," are accepted as separators.
func ParsePositions(s string) (PositionMask, error) {
	var mask PositionMask
	for _, tag := range strings.FieldsFunc(s, isPositionSep) {
		bit, ok := posBits[strings.ToUpper(tag)]
		if !ok {
			return 0, fmt.Errorf("unknown position tag %q", tag)
		}
		mask |= bit
	}
	if mask == 0 {
		return 0, fmt.Errorf("no position tags in %q", s)
	}
	return mask, nil
}

func isPositionSep(r rune) bool {
	return r == '/' || r == ',' || r == ' '
}

// EligibleFor reports whether a candidate with this mask may fill slot s.
func (m PositionMask) EligibleFor(s Slot) bool {
	return m&slotMasks[s] != 0
}

// EligibleSlotCount returns how many of the eight slots this mask can fill.
// Used to seat the most constrained candidates first.
func (m PositionMask) EligibleSlotCount() int {
	n := 0
	for _, s := range SlotOrder {
		if m.EligibleFor(s) {
			n++
		}
	}
	return n
}

// String renders the mask back into tag form, e.g. "PG/SF".
func (m PositionMask) String() string {
	var tags []string
	for i, name := range slotNames[:5] {
		if m&(1<<i) != 0 {
			tags = append(tags, name)
		}
	}
	return strings.Join(tags, "/")
}
