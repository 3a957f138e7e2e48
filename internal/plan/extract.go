// Package plan pulls the isocenter and the beam identifiers out of a
// treatment plan.
package plan

import (
	"strconv"
	"strings"

	"github.com/mrsinham/centroidwatch/internal/dicom"
	"github.com/mrsinham/centroidwatch/internal/geometry"
)

// MaxBeamIDs is the number of beam identifiers carried into report names.
const MaxBeamIDs = 2

// Extraction is what the report needs from a plan.
type Extraction struct {
	// Isocenter is in centimeters, nil when no control point carries one.
	Isocenter *geometry.Point
	BeamIDs   []string
	// Skipped counts malformed isocenters passed over before the one kept,
	// or in the whole plan when none was kept.
	Skipped int
}

// Extract scans beams then control points in document order and keeps the
// first isocenter found, along with the IDs of the first MaxBeamIDs beams.
func Extract(p *dicom.Plan) Extraction {
	var out Extraction
	if p == nil {
		return out
	}
	out.Isocenter, out.Skipped = firstIsocenter(p)
	for _, b := range p.Beams {
		if len(out.BeamIDs) == MaxBeamIDs {
			break
		}
		out.BeamIDs = append(out.BeamIDs, BeamID(b))
	}
	return out
}

// FirstIsocenter returns the first isocenter of the plan in centimeters.
func FirstIsocenter(p *dicom.Plan) *geometry.Point {
	iso, _ := firstIsocenter(p)
	return iso
}

func firstIsocenter(p *dicom.Plan) (*geometry.Point, int) {
	skipped := 0
	for _, b := range p.Beams {
		for _, cp := range b.ControlPoints {
			if cp.Isocenter != nil {
				iso := cp.Isocenter.ToCM()
				return &iso, skipped
			}
			if cp.MalformedIsocenter {
				skipped++
			}
		}
	}
	return nil, skipped
}

// BeamID is the beam name, or its number when the name is blank.
func BeamID(b dicom.Beam) string {
	if name := strings.TrimSpace(b.Name); name != "" {
		return name
	}
	return strconv.Itoa(b.Number)
}
