// Package pairing matches structure-set and plan files that arrive
// independently for the same patient and hands each complete pair to a
// dispatcher exactly once.
package pairing

import (
	"time"

	"github.com/mrsinham/centroidwatch/internal/dicom"
)

// Kind is the role a file plays in a pair.
type Kind int

const (
	KindStructureSet Kind = iota
	KindPlan
)

// String returns the DICOM modality of the kind.
func (k Kind) String() string {
	switch k {
	case KindStructureSet:
		return dicom.ModalityStructureSet
	case KindPlan:
		return dicom.ModalityPlan
	default:
		return "UNKNOWN"
	}
}

// KindOf maps a modality to a Kind.
func KindOf(modality string) (Kind, bool) {
	switch modality {
	case dicom.ModalityStructureSet:
		return KindStructureSet, true
	case dicom.ModalityPlan:
		return KindPlan, true
	default:
		return 0, false
	}
}

// FileRef is a file held while its counterpart is awaited.
type FileRef struct {
	Path      string
	Size      int64
	ArrivedAt time.Time
}

// PendingPair is the per-patient state between the first file and dispatch.
type PendingPair struct {
	PatientID    string
	StructureSet *FileRef
	Plan         *FileRef
}

// Ready reports whether both files are present.
func (p *PendingPair) Ready() bool {
	return p.StructureSet != nil && p.Plan != nil
}

func (p *PendingPair) set(k Kind, ref *FileRef) (replaced *FileRef) {
	switch k {
	case KindStructureSet:
		replaced, p.StructureSet = p.StructureSet, ref
	case KindPlan:
		replaced, p.Plan = p.Plan, ref
	}
	return replaced
}

func (p PendingPair) clone() PendingPair {
	if p.StructureSet != nil {
		ss := *p.StructureSet
		p.StructureSet = &ss
	}
	if p.Plan != nil {
		pl := *p.Plan
		p.Plan = &pl
	}
	return p
}

// Pair is a complete, dispatched pair.
type Pair struct {
	PatientID        string
	StructureSetPath string
	PlanPath         string
}
