package feed

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wonny/stacker/internal/contracts"
)

// Package feed turns external candidate exports (CSV or JSON) into normalized
// contracts.Candidate records with their position masks precomputed.
// ⭐ SSOT: 외부 피드 파싱은 여기서만

// headerAliases maps lowercased, space-stripped CSV headers to canonical
// column names. Upstream exports disagree on naming; all common variants are
// accepted.
var headerAliases = map[string]string{
	"id":             "id",
	"playerid":       "id",
	"name":           "name",
	"player":         "name",
	"positions":      "positions",
	"position":       "positions",
	"pos":            "positions",
	"salary":         "salary",
	"cost":           "salary",
	"projection":     "projection",
	"proj":           "projection",
	"fpts":           "projection",
	"ceiling":        "ceiling",
	"ceil":           "ceiling",
	"tier":           "tier",
	"tierpriority":   "tier",
	"bonus":          "bonus",
	"manualbonus":    "bonus",
	"locked":         "locked",
	"lock":           "locked",
	"minexp":         "minexp",
	"minexposure":    "minexp",
	"minexposurepct": "minexp",
	"maxexp":         "maxexp",
	"maxexposure":    "maxexp",
	"maxexposurepct": "maxexp",
}

var requiredColumns = []string{"id", "positions", "salary", "projection"}

// ReadCSV parses a header-mapped candidate CSV. Every row is normalized
// (position mask derived, ranges checked); the first bad row aborts the read
// with its row number.
func ReadCSV(r io.Reader) ([]contracts.Candidate, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", ""))
		if canon, ok := headerAliases[key]; ok {
			cols[canon] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var out []contracts.Candidate
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		c, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// ReadJSON parses a JSON array of candidates and normalizes each record.
func ReadJSON(r io.Reader) ([]contracts.Candidate, error) {
	var out []contracts.Candidate
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	for i := range out {
		if err := out[i].Normalize(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LoadFile reads a candidate pool from disk, dispatching on the extension
// (.csv or .json).
func LoadFile(path string) ([]contracts.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON(f)
	case ".csv":
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported feed format %q", filepath.Ext(path))
	}
}

func parseRow(rec []string, cols map[string]int) (contracts.Candidate, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	c := contracts.Candidate{
		ID:        field("id"),
		Name:      field("name"),
		Positions: field("positions"),
	}

	var err error
	if c.Salary, err = parseIntField(field("salary"), "salary"); err != nil {
		return c, err
	}
	if c.Projection, err = parseFloatField(field("projection"), "projection"); err != nil {
		return c, err
	}
	if v := field("ceiling"); v != "" {
		if c.Ceiling, err = parseFloatField(v, "ceiling"); err != nil {
			return c, err
		}
	}
	if v := field("tier"); v != "" {
		if c.TierPriority, err = parseIntField(v, "tier"); err != nil {
			return c, err
		}
	}
	if v := field("bonus"); v != "" {
		if c.ManualBonus, err = parseIntField(v, "bonus"); err != nil {
			return c, err
		}
	}
	if v := field("minexp"); v != "" {
		if c.MinExposurePct, err = parseFloatField(v, "minexp"); err != nil {
			return c, err
		}
	}
	if v := field("maxexp"); v != "" {
		if c.MaxExposurePct, err = parseFloatField(v, "maxexp"); err != nil {
			return c, err
		}
	}
	c.Locked = parseBoolField(field("locked"))

	if err := c.Normalize(); err != nil {
		return c, err
	}
	return c, nil
}

func parseIntField(v, name string) (int, error) {
	if v == "" {
		return 0, fmt.Errorf("empty %s", name)
	}
	n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func parseFloatField(v, name string) (float64, error) {
	if v == "" {
		return 0, fmt.Errorf("empty %s", name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return f, nil
}

func parseBoolField(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "y", "x":
		return true
	default:
		return false
	}
}
