package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/wonny/stacker/internal/contracts"
)

// WriteCSV writes one row per lineup in fixed slot order, followed by total
// salary and projection. Cells carry candidate ids so the file round-trips
// into uploaders that key on id.
func WriteCSV(w io.Writer, lineups []contracts.Lineup) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, contracts.SlotCount+3)
	header = append(header, "Lineup")
	for _, s := range contracts.SlotOrder {
		header = append(header, s.String())
	}
	header = append(header, "Salary", "Projection")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range lineups {
		l := &lineups[i]
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(l.ID))
		for _, s := range contracts.SlotOrder {
			row = append(row, l.Get(s).CandidateID)
		}
		row = append(row,
			strconv.Itoa(l.TotalSalary),
			strconv.FormatFloat(l.TotalProjection, 'f', 2, 64),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write lineup %d: %w", l.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the lineup CSV to disk.
func WriteFile(path string, lineups []contracts.Lineup) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, lineups)
}
