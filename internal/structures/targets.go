// Package structures decides which ROIs of a structure set are reported and
// computes their centroids.
package structures

import (
	"fmt"
	"regexp"
)

// Target is one fiducial the default matcher looks for.
type Target struct {
	// Name is the canonical target name, e.g. "seed 1".
	Name    string
	pattern *regexp.Regexp
}

// NewTarget builds a target matching ROI names that contain keyword directly
// followed by index, with at most one space between them, ignoring case. The
// index must not be followed by another digit, so "seed12" is not "seed 1".
func NewTarget(keyword string, index int) Target {
	expr := fmt.Sprintf(`(?i)%s ?%d(?:\D|$)`, regexp.QuoteMeta(keyword), index)
	return Target{
		Name:    fmt.Sprintf("%s %d", keyword, index),
		pattern: regexp.MustCompile(expr),
	}
}

// Matches reports whether roiName binds to the target.
func (t Target) Matches(roiName string) bool {
	return t.pattern.MatchString(roiName)
}

// DefaultTargets are the three seeds followed by the three gold markers, in
// report order.
var DefaultTargets = []Target{
	NewTarget("seed", 1),
	NewTarget("seed", 2),
	NewTarget("seed", 3),
	NewTarget("au", 1),
	NewTarget("au", 2),
	NewTarget("au", 3),
}

// Binding ties a target to the ROI chosen for it.
type Binding struct {
	Target Target
	// Index is the ROI position in document order.
	Index int
}

// Match binds each target to the first ROI name, in document order, that it
// matches. Targets with no match are left out; the result follows target
// order. An ROI may bind to several targets only if its name matches each.
func Match(targets []Target, names []string) []Binding {
	var out []Binding
	for _, t := range targets {
		for i, name := range names {
			if t.Matches(name) {
				out = append(out, Binding{Target: t, Index: i})
				break
			}
		}
	}
	return out
}
