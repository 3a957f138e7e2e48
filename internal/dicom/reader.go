// Package dicom reads and writes the RTSTRUCT and RTPLAN documents the
// centroid pipeline works on.
package dicom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mrsinham/centroidwatch/internal/geometry"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// ErrUnsupportedModality is returned for files that are neither RTSTRUCT nor RTPLAN.
var ErrUnsupportedModality = errors.New("unsupported modality")

// parseFile reads a dataset, skipping pixel data since RT objects carry none
// and stray image files in the watched folder should stay cheap to reject.
func parseFile(path string) (dicom.Dataset, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return dicom.Dataset{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return ds, nil
}

// Identify reads the modality and patient ID of a file. Files with another
// modality fail with ErrUnsupportedModality.
func Identify(path string) (Identity, error) {
	ds, err := parseFile(path)
	if err != nil {
		return Identity{}, err
	}

	var id Identity
	for _, info := range RequiredTags(ScopeCommon) {
		v, ok := firstString(ds.Elements, info.Tag)
		if !ok || v == "" {
			return Identity{}, &MissingTagError{Path: path, Tag: info}
		}
		switch info.Tag {
		case tag.Modality:
			id.Modality = strings.ToUpper(v)
		case tag.PatientID:
			id.PatientID = v
		}
	}

	if id.Modality != ModalityStructureSet && id.Modality != ModalityPlan {
		return Identity{}, fmt.Errorf("%s: %w %q", path, ErrUnsupportedModality, id.Modality)
	}
	return id, nil
}

// LoadStructureSet parses an RTSTRUCT file into ROIs with their contours.
func LoadStructureSet(path string) (*StructureSet, error) {
	ds, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	if m, _ := firstString(ds.Elements, tag.Modality); m != "" && !strings.EqualFold(m, ModalityStructureSet) {
		return nil, fmt.Errorf("%s: expected %s, got %q: %w", path, ModalityStructureSet, m, ErrUnsupportedModality)
	}

	ss := &StructureSet{}
	ss.PatientID, _ = firstString(ds.Elements, tag.PatientID)
	if ss.PatientID == "" {
		return nil, &MissingTagError{Path: path, Tag: tagPatientID}
	}
	ss.PatientName, _ = firstString(ds.Elements, tag.PatientName)

	roiSeq, ok := findElement(ds.Elements, tag.StructureSetROISequence)
	if !ok {
		return nil, &MissingTagError{Path: path, Tag: tagStructureSetROISequence}
	}

	index := make(map[int]int)
	for _, item := range sequenceItems(roiSeq) {
		number, ok := firstInt(item, tag.ROINumber)
		if !ok {
			return nil, &MissingTagError{Path: path, Tag: tagROINumber}
		}
		name, ok := firstString(item, tag.ROIName)
		if !ok {
			return nil, &MissingTagError{Path: path, Tag: tagROIName}
		}
		if _, dup := index[number]; dup {
			return nil, fmt.Errorf("%s: duplicate ROI number %d", path, number)
		}
		index[number] = len(ss.ROIs)
		ss.ROIs = append(ss.ROIs, ROI{Number: number, Name: name})
	}

	// A structure set may define ROIs without any drawn contour, in which
	// case ROIContourSequence is absent or has no entry for them.
	contourSeq, ok := findElement(ds.Elements, tag.ROIContourSequence)
	if !ok {
		return ss, nil
	}
	for _, item := range sequenceItems(contourSeq) {
		ref, ok := firstInt(item, tag.ReferencedROINumber)
		if !ok {
			return nil, &MissingTagError{Path: path, Tag: tagReferencedROINumber}
		}
		i, known := index[ref]
		if !known {
			continue
		}
		contours, err := readContours(item)
		if err != nil {
			return nil, fmt.Errorf("%s: ROI %d (%s): %w", path, ref, ss.ROIs[i].Name, err)
		}
		ss.ROIs[i].Contours = append(ss.ROIs[i].Contours, contours...)
	}

	return ss, nil
}

func readContours(roiContour []*dicom.Element) ([][]geometry.Point, error) {
	seq, ok := findElement(roiContour, tag.ContourSequence)
	if !ok {
		return nil, nil
	}
	var out [][]geometry.Point
	for _, item := range sequenceItems(seq) {
		values, ok, err := floats(item, tag.ContourData)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tagContourData.Name, err)
		}
		if !ok {
			continue
		}
		points, err := geometry.PointsFromFlat(values)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tagContourData.Name, err)
		}
		out = append(out, points)
	}
	return out, nil
}

// LoadPlan parses an RTPLAN file into beams and control points.
func LoadPlan(path string) (*Plan, error) {
	ds, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	if m, _ := firstString(ds.Elements, tag.Modality); m != "" && !strings.EqualFold(m, ModalityPlan) {
		return nil, fmt.Errorf("%s: expected %s, got %q: %w", path, ModalityPlan, m, ErrUnsupportedModality)
	}

	p := &Plan{}
	p.PatientID, _ = firstString(ds.Elements, tag.PatientID)
	if p.PatientID == "" {
		return nil, &MissingTagError{Path: path, Tag: tagPatientID}
	}
	p.PatientName, _ = firstString(ds.Elements, tag.PatientName)

	beamSeq, ok := findElement(ds.Elements, tag.BeamSequence)
	if !ok {
		return nil, &MissingTagError{Path: path, Tag: tagBeamSequence}
	}

	for _, item := range sequenceItems(beamSeq) {
		beam := Beam{}
		beam.Number, _ = firstInt(item, tag.BeamNumber)
		beam.Name, _ = firstString(item, tag.BeamName)

		if cpSeq, ok := findElement(item, tag.ControlPointSequence); ok {
			for i, cpItem := range sequenceItems(cpSeq) {
				cp := ControlPoint{Index: i}
				if idx, ok := firstInt(cpItem, tag.ControlPointIndex); ok {
					cp.Index = idx
				}
				values, ok, err := floats(cpItem, tag.IsocenterPosition)
				// A malformed isocenter is kept as absent; the extractor
				// moves on to the next control point.
				switch {
				case err == nil && ok && len(values) == 3:
					cp.Isocenter = &geometry.Point{X: values[0], Y: values[1], Z: values[2]}
				case ok || err != nil:
					cp.MalformedIsocenter = true
				}
				beam.ControlPoints = append(beam.ControlPoints, cp)
			}
		}
		p.Beams = append(p.Beams, beam)
	}

	return p, nil
}

// findElement returns the first element with tag t among elems.
func findElement(elems []*dicom.Element, t tag.Tag) (*dicom.Element, bool) {
	for _, e := range elems {
		if e != nil && e.Tag == t {
			return e, true
		}
	}
	return nil, false
}

// sequenceItems returns the elements of every item of a sequence element.
func sequenceItems(e *dicom.Element) [][]*dicom.Element {
	if e == nil || e.Value == nil || e.Value.ValueType() != dicom.Sequences {
		return nil
	}
	seq, ok := e.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		return nil
	}
	items := make([][]*dicom.Element, 0, len(seq))
	for _, item := range seq {
		elems, ok := item.GetValue().([]*dicom.Element)
		if !ok {
			continue
		}
		items = append(items, elems)
	}
	return items
}

// stringValues returns the trimmed string values of tag t.
func stringValues(elems []*dicom.Element, t tag.Tag) ([]string, bool) {
	e, ok := findElement(elems, t)
	if !ok || e.Value == nil {
		return nil, false
	}
	switch e.Value.ValueType() {
	case dicom.Strings:
		raw, _ := e.Value.GetValue().([]string)
		out := make([]string, len(raw))
		for i, s := range raw {
			out[i] = strings.TrimSpace(strings.TrimRight(s, "\x00"))
		}
		return out, true
	case dicom.Ints:
		raw, _ := e.Value.GetValue().([]int)
		out := make([]string, len(raw))
		for i, v := range raw {
			out[i] = strconv.Itoa(v)
		}
		return out, true
	case dicom.Floats:
		raw, _ := e.Value.GetValue().([]float64)
		out := make([]string, len(raw))
		for i, v := range raw {
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		return out, true
	default:
		return nil, false
	}
}

func firstString(elems []*dicom.Element, t tag.Tag) (string, bool) {
	values, ok := stringValues(elems, t)
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func firstInt(elems []*dicom.Element, t tag.Tag) (int, bool) {
	s, ok := firstString(elems, t)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// floats parses a decimal-string (DS) element. ok is false when the tag is
// absent or empty.
func floats(elems []*dicom.Element, t tag.Tag) ([]float64, bool, error) {
	values, ok := stringValues(elems, t)
	if !ok || len(values) == 0 {
		return nil, false, nil
	}
	out := make([]float64, 0, len(values))
	for _, s := range values {
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, true, fmt.Errorf("invalid decimal %q: %w", s, err)
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, false, nil
	}
	return out, true, nil
}
