package dicom

import (
	"github.com/mrsinham/centroidwatch/internal/geometry"
)

// Modality values this package understands.
const (
	ModalityStructureSet = "RTSTRUCT"
	ModalityPlan         = "RTPLAN"
)

// SOP class UIDs written into generated files.
const (
	RTStructureSetStorage  = "1.2.840.10008.5.1.4.1.1.481.3"
	RTPlanStorage          = "1.2.840.10008.5.1.4.1.1.481.5"
	explicitVRLittleEndian = "1.2.840.10008.1.2.1"
	implementationClassUID = "1.2.826.0.1.3680043.8.498"
)

// Identity is the minimum read from any file to route it into pairing.
type Identity struct {
	Modality  string
	PatientID string
}

// ROI is one named structure of a structure set together with its contours.
type ROI struct {
	Number int
	Name   string
	// Contours holds one entry per contour item, each an ordered list of
	// points in millimeters. Empty when the ROI is defined but not drawn.
	Contours [][]geometry.Point
}

// HasContours reports whether at least one contour point exists.
func (r ROI) HasContours() bool {
	for _, c := range r.Contours {
		if len(c) > 0 {
			return true
		}
	}
	return false
}

// StructureSet is a parsed RTSTRUCT.
type StructureSet struct {
	PatientID   string
	PatientName string
	ROIs        []ROI
}

// Names returns the ROI names in document order.
func (s *StructureSet) Names() []string {
	names := make([]string, len(s.ROIs))
	for i, r := range s.ROIs {
		names[i] = r.Name
	}
	return names
}

// ControlPoint is one entry of a beam's control point sequence.
type ControlPoint struct {
	Index int
	// Isocenter is nil when the control point carries no IsocenterPosition.
	Isocenter *geometry.Point
	// MalformedIsocenter is set when IsocenterPosition is present but is not
	// three decimal values. Isocenter is nil in that case.
	MalformedIsocenter bool
}

// Beam is one entry of an RTPLAN BeamSequence.
type Beam struct {
	Number        int
	Name          string
	ControlPoints []ControlPoint
}

// Plan is a parsed RTPLAN.
type Plan struct {
	PatientID   string
	PatientName string
	Beams       []Beam
}
