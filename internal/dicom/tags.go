package dicom

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// TagScope is the document kind a tag is read from.
type TagScope int

const (
	// ScopeCommon tags are read from every file during identification.
	ScopeCommon TagScope = iota
	// ScopeStructureSet tags are read from RTSTRUCT files.
	ScopeStructureSet
	// ScopePlan tags are read from RTPLAN files.
	ScopePlan
)

// String returns the string representation of a TagScope.
func (s TagScope) String() string {
	switch s {
	case ScopeCommon:
		return "Common"
	case ScopeStructureSet:
		return "StructureSet"
	case ScopePlan:
		return "Plan"
	default:
		return "Unknown"
	}
}

// TagInfo names a tag the reader depends on.
type TagInfo struct {
	Name  string
	Tag   tag.Tag
	Scope TagScope
}

var (
	tagModality    = TagInfo{Name: "Modality", Tag: tag.Modality, Scope: ScopeCommon}
	tagPatientID   = TagInfo{Name: "PatientID", Tag: tag.PatientID, Scope: ScopeCommon}
	tagPatientName = TagInfo{Name: "PatientName", Tag: tag.PatientName, Scope: ScopeCommon}

	tagStructureSetROISequence = TagInfo{Name: "StructureSetROISequence", Tag: tag.StructureSetROISequence, Scope: ScopeStructureSet}
	tagROINumber               = TagInfo{Name: "ROINumber", Tag: tag.ROINumber, Scope: ScopeStructureSet}
	tagROIName                 = TagInfo{Name: "ROIName", Tag: tag.ROIName, Scope: ScopeStructureSet}
	tagROIContourSequence      = TagInfo{Name: "ROIContourSequence", Tag: tag.ROIContourSequence, Scope: ScopeStructureSet}
	tagReferencedROINumber     = TagInfo{Name: "ReferencedROINumber", Tag: tag.ReferencedROINumber, Scope: ScopeStructureSet}
	tagContourSequence         = TagInfo{Name: "ContourSequence", Tag: tag.ContourSequence, Scope: ScopeStructureSet}
	tagContourData             = TagInfo{Name: "ContourData", Tag: tag.ContourData, Scope: ScopeStructureSet}

	tagBeamSequence         = TagInfo{Name: "BeamSequence", Tag: tag.BeamSequence, Scope: ScopePlan}
	tagBeamNumber           = TagInfo{Name: "BeamNumber", Tag: tag.BeamNumber, Scope: ScopePlan}
	tagBeamName             = TagInfo{Name: "BeamName", Tag: tag.BeamName, Scope: ScopePlan}
	tagControlPointSequence = TagInfo{Name: "ControlPointSequence", Tag: tag.ControlPointSequence, Scope: ScopePlan}
	tagControlPointIndex    = TagInfo{Name: "ControlPointIndex", Tag: tag.ControlPointIndex, Scope: ScopePlan}
	tagIsocenterPosition    = TagInfo{Name: "IsocenterPosition", Tag: tag.IsocenterPosition, Scope: ScopePlan}
)

// RequiredTags lists the tags that must be present for a document of the
// given scope to be processed. Nested tags are listed after their sequence.
func RequiredTags(scope TagScope) []TagInfo {
	switch scope {
	case ScopeCommon:
		return []TagInfo{tagModality, tagPatientID}
	case ScopeStructureSet:
		return []TagInfo{tagPatientID, tagStructureSetROISequence, tagROINumber, tagROIName}
	case ScopePlan:
		return []TagInfo{tagPatientID, tagBeamSequence}
	default:
		return nil
	}
}

// MissingTagError reports a required tag absent from a file.
type MissingTagError struct {
	Path string
	Tag  TagInfo
}

func (e *MissingTagError) Error() string {
	return fmt.Sprintf("%s: missing required tag %s %v", e.Path, e.Tag.Name, e.Tag.Tag)
}
