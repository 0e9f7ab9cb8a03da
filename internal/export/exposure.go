package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/wonny/stacker/internal/contracts"
)

// ExposureRow reports how often one candidate appears across a batch.
type ExposureRow struct {
	CandidateID string  `json:"candidateId"`
	Name        string  `json:"name,omitempty"`
	Count       int     `json:"count"`
	Pct         float64 `json:"pct"`
}

// ExposureTable computes the portfolio-level exposure of every candidate that
// appears in the batch, sorted by count descending then id ascending.
func ExposureTable(lineups []contracts.Lineup) []ExposureRow {
	if len(lineups) == 0 {
		return nil
	}

	counts := make(map[string]int)
	names := make(map[string]string)
	for i := range lineups {
		for j := range lineups[i].Assignments {
			a := &lineups[i].Assignments[j]
			counts[a.CandidateID]++
			if a.Name != "" {
				names[a.CandidateID] = a.Name
			}
		}
	}

	rows := make([]ExposureRow, 0, len(counts))
	for id, n := range counts {
		rows = append(rows, ExposureRow{
			CandidateID: id,
			Name:        names[id],
			Count:       n,
			Pct:         float64(n) / float64(len(lineups)) * 100,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].CandidateID < rows[j].CandidateID
	})
	return rows
}

// WriteExposureCSV writes the exposure table as CSV.
func WriteExposureCSV(w io.Writer, rows []ExposureRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Name", "Count", "Exposure%"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.CandidateID,
			r.Name,
			strconv.Itoa(r.Count),
			strconv.FormatFloat(r.Pct, 'f', 1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s: %w", r.CandidateID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
