// Package edgecases perturbs synthetic RT pairs the way real exports differ
// from textbook ones: accented or overlong names, identifiers that are not
// safe in file names, and fiducials typed in whatever case and spacing the
// planner used.
package edgecases

import (
	"fmt"
	"strings"
)

// EdgeCaseType names one kind of perturbation.
type EdgeCaseType string

const (
	SpecialChars EdgeCaseType = "special-chars"
	LongNames    EdgeCaseType = "long-names"
	VariedIDs    EdgeCaseType = "varied-ids"
	// ROISpellings renames fiducials to spellings the target table still
	// recognizes ("SEED1", "Prostate seed 2", "Au3_final").
	ROISpellings EdgeCaseType = "roi-spellings"
	// UnlabelledMarkers names fiducials so that no target matches, which
	// sends the pair to the operator prompt.
	UnlabelledMarkers EdgeCaseType = "unlabelled-markers"
)

func AllEdgeCaseTypes() []EdgeCaseType {
	return []EdgeCaseType{SpecialChars, LongNames, VariedIDs, ROISpellings, UnlabelledMarkers}
}

// Config selects which patients are perturbed and how.
type Config struct {
	// Percentage of patients perturbed, 0-100.
	Percentage int
	Types      []EdgeCaseType
}

// ParseTypes parses a comma-separated list of edge case types. "all"
// enables every type; duplicates are dropped.
func ParseTypes(input string) ([]EdgeCaseType, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	known := make(map[EdgeCaseType]bool)
	for _, t := range AllEdgeCaseTypes() {
		known[t] = true
	}

	var types []EdgeCaseType
	seen := make(map[EdgeCaseType]bool)
	for _, field := range strings.Split(input, ",") {
		field = strings.TrimSpace(field)
		if field == "all" {
			return AllEdgeCaseTypes(), nil
		}
		t := EdgeCaseType(field)
		if !known[t] {
			return nil, fmt.Errorf("unknown edge case type %q, valid types: %v (or 'all')", field, AllEdgeCaseTypes())
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return types, nil
}

// Validate rejects out-of-range percentages and a percentage without types.
func (c *Config) Validate() error {
	if c.Percentage < 0 || c.Percentage > 100 {
		return fmt.Errorf("edge-cases percentage must be 0-100, got %d", c.Percentage)
	}
	if c.Percentage > 0 && len(c.Types) == 0 {
		return fmt.Errorf("edge-cases enabled but no types specified")
	}
	return nil
}

func (c *Config) IsEnabled() bool {
	return c.Percentage > 0 && len(c.Types) > 0
}

// HasType reports whether t is enabled.
func (c *Config) HasType(t EdgeCaseType) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}
