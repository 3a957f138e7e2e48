package dicom

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mrsinham/centroidwatch/internal/geometry"
	"github.com/mrsinham/centroidwatch/internal/util"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// mustNewElement creates a new DICOM element, panicking on error.
func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

// floatToDS converts a float64 to a DICOM Decimal String, which is limited
// to 16 characters.
func floatToDS(f float64) string {
	return strconv.FormatFloat(f, 'g', 10, 64)
}

func pointsToDS(points []geometry.Point) []string {
	flat := geometry.Flatten(points)
	out := make([]string, len(flat))
	for i, v := range flat {
		out[i] = floatToDS(v)
	}
	return out
}

// writeDatasetToFile writes a DICOM dataset to a file
func writeDatasetToFile(filename string, ds dicom.Dataset, opts ...dicom.WriteOption) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return dicom.Write(f, ds, opts...)
}

// headerElements returns the file meta group and the patient/SOP module
// shared by both RT objects.
func headerElements(sopClassUID, sopInstanceUID, modality, patientID, patientName string) []*dicom.Element {
	return []*dicom.Element{
		mustNewElement(tag.TransferSyntaxUID, []string{explicitVRLittleEndian}),
		mustNewElement(tag.MediaStorageSOPClassUID, []string{sopClassUID}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{sopInstanceUID}),
		mustNewElement(tag.ImplementationClassUID, []string{implementationClassUID}),

		mustNewElement(tag.SOPClassUID, []string{sopClassUID}),
		mustNewElement(tag.SOPInstanceUID, []string{sopInstanceUID}),
		mustNewElement(tag.Modality, []string{modality}),
		mustNewElement(tag.PatientName, []string{patientName}),
		mustNewElement(tag.PatientID, []string{patientID}),
	}
}

// StructureSetElements builds the dataset elements of an RTSTRUCT.
func StructureSetElements(ss *StructureSet) []*dicom.Element {
	sopInstanceUID := util.DeterministicUID("rtstruct_" + ss.PatientID)
	elements := headerElements(RTStructureSetStorage, sopInstanceUID, ModalityStructureSet, ss.PatientID, ss.PatientName)
	elements = append(elements, mustNewElement(tag.StructureSetLabel, []string{"CENTROID"}))

	roiItems := make([][]*dicom.Element, 0, len(ss.ROIs))
	contourItems := make([][]*dicom.Element, 0, len(ss.ROIs))
	for _, roi := range ss.ROIs {
		number := strconv.Itoa(roi.Number)
		roiItems = append(roiItems, []*dicom.Element{
			mustNewElement(tag.ROINumber, []string{number}),
			mustNewElement(tag.ROIName, []string{roi.Name}),
		})

		// ROIs without contours get no ROIContourSequence entry, the way
		// planning systems export structures that were never drawn.
		if !roi.HasContours() {
			continue
		}
		var slices [][]*dicom.Element
		for _, contour := range roi.Contours {
			if len(contour) == 0 {
				continue
			}
			geometricType := "CLOSED_PLANAR"
			if len(contour) == 1 {
				geometricType = "POINT"
			}
			slices = append(slices, []*dicom.Element{
				mustNewElement(tag.ContourGeometricType, []string{geometricType}),
				mustNewElement(tag.NumberOfContourPoints, []string{strconv.Itoa(len(contour))}),
				mustNewElement(tag.ContourData, pointsToDS(contour)),
			})
		}
		contourItems = append(contourItems, []*dicom.Element{
			mustNewElement(tag.ContourSequence, slices),
			mustNewElement(tag.ReferencedROINumber, []string{number}),
		})
	}

	elements = append(elements, mustNewElement(tag.StructureSetROISequence, roiItems))
	if len(contourItems) > 0 {
		elements = append(elements, mustNewElement(tag.ROIContourSequence, contourItems))
	}
	return elements
}

// PlanElements builds the dataset elements of an RTPLAN.
func PlanElements(p *Plan) []*dicom.Element {
	sopInstanceUID := util.DeterministicUID("rtplan_" + p.PatientID)
	elements := headerElements(RTPlanStorage, sopInstanceUID, ModalityPlan, p.PatientID, p.PatientName)
	elements = append(elements, mustNewElement(tag.RTPlanLabel, []string{"CENTROID"}))

	beamItems := make([][]*dicom.Element, 0, len(p.Beams))
	for _, beam := range p.Beams {
		item := []*dicom.Element{
			mustNewElement(tag.BeamNumber, []string{strconv.Itoa(beam.Number)}),
		}
		if beam.Name != "" {
			item = append(item, mustNewElement(tag.BeamName, []string{beam.Name}))
		}

		cpItems := make([][]*dicom.Element, 0, len(beam.ControlPoints))
		for _, cp := range beam.ControlPoints {
			cpItem := []*dicom.Element{
				mustNewElement(tag.ControlPointIndex, []string{strconv.Itoa(cp.Index)}),
			}
			if cp.Isocenter != nil {
				cpItem = append(cpItem, mustNewElement(tag.IsocenterPosition, pointsToDS([]geometry.Point{*cp.Isocenter})))
			}
			cpItems = append(cpItems, cpItem)
		}
		if len(cpItems) > 0 {
			item = append(item,
				mustNewElement(tag.NumberOfControlPoints, []string{strconv.Itoa(len(cpItems))}),
				mustNewElement(tag.ControlPointSequence, cpItems))
		}
		beamItems = append(beamItems, item)
	}

	elements = append(elements, mustNewElement(tag.BeamSequence, beamItems))
	return elements
}

// WriteStructureSet writes ss as an RTSTRUCT file at path.
func WriteStructureSet(path string, ss *StructureSet) error {
	if err := writeDatasetToFile(path, dicom.Dataset{Elements: StructureSetElements(ss)}); err != nil {
		return fmt.Errorf("write RTSTRUCT %s: %w", path, err)
	}
	return nil
}

// WritePlan writes p as an RTPLAN file at path.
func WritePlan(path string, p *Plan) error {
	if err := writeDatasetToFile(path, dicom.Dataset{Elements: PlanElements(p)}); err != nil {
		return fmt.Errorf("write RTPLAN %s: %w", path, err)
	}
	return nil
}
